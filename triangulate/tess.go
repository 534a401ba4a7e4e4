package triangulate

import "github.com/gorustyt/udmfnav/common"

// Tess triangulates a simple polygon by repeatedly clipping the ear with the
// shortest diagonal. Triangles keep the winding of the input ring.
func Tess(pts []common.Vec2) []int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	indices := make([]int, n)
	reversed := common.PolygonArea2D(pts) < 0
	for i := range indices {
		if reversed {
			indices[i] = n - 1 - i
		} else {
			indices[i] = i
		}
	}
	tris := make([]int, 0, (n-2)*3)
	tris, ok := tessRing(pts, indices, tris)
	if !ok {
		return nil
	}
	if reversed {
		for i := 0; i < len(tris); i += 3 {
			tris[i+1], tris[i+2] = tris[i+2], tris[i+1]
		}
	}
	return tris
}

func tessRing(pts []common.Vec2, indices []int, tris []int) ([]int, bool) {
	n := len(indices)
	removable := make([]bool, n)
	for i := 0; i < n; i++ {
		i1 := common.Next(i, n)
		i2 := common.Next(i1, n)
		removable[i1] = diagonal(i, i2, n, pts, indices)
	}

	for n > 3 {
		minLen := -1.0
		mini := -1
		for i := 0; i < n; i++ {
			i1 := common.Next(i, n)
			if removable[i1] {
				p0 := pts[indices[i]]
				p2 := pts[indices[common.Next(i1, n)]]
				if l := p2.Sub(p0).LenSqr(); minLen < 0 || l < minLen {
					minLen = l
					mini = i
				}
			}
		}

		if mini == -1 {
			// Overlapping segments; retry with a looser cone test.
			for i := 0; i < n; i++ {
				i1 := common.Next(i, n)
				i2 := common.Next(i1, n)
				if diagonalLoose(i, i2, n, pts, indices) {
					p0 := pts[indices[i]]
					p2 := pts[indices[common.Next(i2, n)]]
					if l := p2.Sub(p0).LenSqr(); minLen < 0 || l < minLen {
						minLen = l
						mini = i
					}
				}
			}
			if mini == -1 {
				return tris, false
			}
		}

		i := mini
		i1 := common.Next(i, n)
		i2 := common.Next(i1, n)
		tris = append(tris, indices[i], indices[i1], indices[i2])

		// Remove P[i1].
		n--
		copy(indices[i1:], indices[i1+1:n+1])
		copy(removable[i1:], removable[i1+1:n+1])
		indices = indices[:n]
		removable = removable[:n]

		if i1 >= n {
			i1 = 0
		}
		i = common.Prev(i1, n)
		removable[i] = diagonal(common.Prev(i, n), i1, n, pts, indices)
		removable[i1] = diagonal(i, common.Next(i1, n), n, pts, indices)
	}
	return append(tris, indices[0], indices[1], indices[2]), true
}

// diagonalie reports whether (i, j) crosses no polygon edge, ignoring edges
// incident to i and j.
func diagonalie(i, j, n int, pts []common.Vec2, indices []int, proper bool) bool {
	d0, d1 := pts[indices[i]], pts[indices[j]]
	for k := 0; k < n; k++ {
		k1 := common.Next(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0, p1 := pts[indices[k]], pts[indices[k1]]
		if d0 == p0 || d1 == p0 || d0 == p1 || d1 == p1 {
			continue
		}
		if proper {
			if common.IntersectProp(d0, d1, p0, p1) {
				return false
			}
		} else if common.Intersect(d0, d1, p0, p1) {
			return false
		}
	}
	return true
}

// inCone reports whether (i, j) is internal to the polygon near i.
func inCone(i, j, n int, pts []common.Vec2, indices []int, loose bool) bool {
	pi := pts[indices[i]]
	pj := pts[indices[j]]
	pi1 := pts[indices[common.Next(i, n)]]
	pin1 := pts[indices[common.Prev(i, n)]]

	if common.LeftOn(pin1, pi, pi1) {
		if loose {
			return common.LeftOn(pi, pj, pin1) && common.LeftOn(pj, pi, pi1)
		}
		return common.Left(pi, pj, pin1) && common.Left(pj, pi, pi1)
	}
	return !(common.LeftOn(pi, pj, pi1) && common.LeftOn(pj, pi, pin1))
}

func diagonal(i, j, n int, pts []common.Vec2, indices []int) bool {
	return inCone(i, j, n, pts, indices, false) && diagonalie(i, j, n, pts, indices, false)
}

func diagonalLoose(i, j, n int, pts []common.Vec2, indices []int) bool {
	return inCone(i, j, n, pts, indices, true) && diagonalie(i, j, n, pts, indices, true)
}
