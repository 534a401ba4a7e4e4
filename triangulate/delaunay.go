package triangulate

import (
	"math"

	"github.com/gorustyt/udmfnav/common"
)

type edgeKey struct{ a, b int }

func mkEdge(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Delaunay ear clips the ring, then flips interior edges until every triangle
// pair satisfies the empty circumcircle test. Ring edges are never flipped.
func Delaunay(pts []common.Vec2) []int {
	tris := Earcut(common.Flatten2(pts), nil, 2)
	if len(tris) < 6 {
		return tris
	}
	boundary := make(map[edgeKey]bool, len(pts))
	for i := range pts {
		boundary[mkEdge(i, common.Next(i, len(pts)))] = true
	}
	maxFlips := len(tris) * len(tris)
	for flips := 0; flips < maxFlips; flips++ {
		if !flipOnce(pts, tris, boundary) {
			break
		}
	}
	return tris
}

// flipOnce flips the first non-Delaunay interior edge it finds.
func flipOnce(pts []common.Vec2, tris []int, boundary map[edgeKey]bool) bool {
	owner := make(map[edgeKey][]int)
	for t := 0; t < len(tris); t += 3 {
		for k := 0; k < 3; k++ {
			e := mkEdge(tris[t+k], tris[t+(k+1)%3])
			owner[e] = append(owner[e], t)
		}
	}
	for i := 0; i < len(tris); i++ {
		e := mkEdge(tris[i], tris[i/3*3+(i+1)%3])
		ts := owner[e]
		if len(ts) != 2 || boundary[e] || ts[0] != i/3*3 {
			continue
		}
		t1, t2 := ts[0], ts[1]
		a, b, c := rotateTo(tris[t1:t1+3], e)
		d := opposite(tris[t2:t2+3], e)
		if d < 0 || c < 0 {
			continue
		}
		pa, pb, pc, pd := pts[a], pts[b], pts[c], pts[d]
		if !common.IntersectProp(pa, pb, pc, pd) {
			continue
		}
		if !inCircumcircle(pa, pb, pc, pd) {
			continue
		}
		// Quad order is a, d, b, c.
		copy(tris[t1:t1+3], []int{a, d, c})
		copy(tris[t2:t2+3], []int{d, b, c})
		return true
	}
	return false
}

// rotateTo returns the triangle as (a, b, c) with a->b being edge e in winding order.
func rotateTo(tri []int, e edgeKey) (int, int, int) {
	for k := 0; k < 3; k++ {
		a, b, c := tri[k], tri[(k+1)%3], tri[(k+2)%3]
		if mkEdge(a, b) == e {
			return a, b, c
		}
	}
	return -1, -1, -1
}

func opposite(tri []int, e edgeKey) int {
	for _, v := range tri {
		if v != e.a && v != e.b {
			return v
		}
	}
	return -1
}

func inCircumcircle(a, b, c, d common.Vec2) bool {
	adx, ady := a[0]-d[0], a[1]-d[1]
	bdx, bdy := b[0]-d[0], b[1]-d[1]
	cdx, cdy := c[0]-d[0], c[1]-d[1]
	det := (adx*adx+ady*ady)*(bdx*cdy-cdx*bdy) -
		(bdx*bdx+bdy*bdy)*(adx*cdy-cdx*ady) +
		(cdx*cdx+cdy*cdy)*(adx*bdy-bdx*ady)
	scale := math.Max(1, (adx*adx+ady*ady)+(bdx*bdx+bdy*bdy)+(cdx*cdx+cdy*cdy))
	eps := 1e-9 * scale * scale
	if common.Area2(a, b, c) < 0 {
		det = -det
	}
	return det > eps
}
