package triangulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/common"
)

func square(x0, y0, x1, y1 float64) []common.Vec2 {
	return []common.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// lShape is a concave hexagon.
var lShape = []common.Vec2{{0, 0}, {128, 0}, {128, 64}, {64, 64}, {64, 128}, {0, 128}}

func triArea(pts []common.Vec2, tris []int) float64 {
	var a float64
	for i := 0; i < len(tris); i += 3 {
		a += common.Area2(pts[tris[i]], pts[tris[i+1]], pts[tris[i+2]]) / 2
	}
	return a
}

func TestEarcutSquare(t *testing.T) {
	pts := square(0, 0, 128, 128)
	tris := Earcut(common.Flatten2(pts), nil, 2)
	require.Len(t, tris, 6)
	assert.Zero(t, Deviation(common.Flatten2(pts), nil, 2, tris))
}

func TestEarcutHole(t *testing.T) {
	outer := square(0, 0, 256, 256)
	hole := square(64, 64, 192, 192)
	data, holes := Rings(outer, hole)
	assert.Equal(t, []int{4}, holes)

	tris := Earcut(data, holes, 2)
	require.NotEmpty(t, tris)
	assert.Len(t, tris, 8*3)
	assert.InDelta(t, 0, Deviation(data, holes, 2, tris), 1e-12)

	all := append(append([]common.Vec2{}, outer...), hole...)
	for i := 0; i < len(tris); i += 3 {
		c := all[tris[i]].Add(all[tris[i+1]]).Add(all[tris[i+2]]).Mul(1.0 / 3)
		inHole := c[0] > 64 && c[0] < 192 && c[1] > 64 && c[1] < 192
		assert.False(t, inHole, "triangle %d lies in the hole", i/3)
	}
}

func TestEarcutDegenerate(t *testing.T) {
	assert.Empty(t, Earcut([]float64{0, 0, 1, 1}, nil, 2))
	assert.Empty(t, Earcut([]float64{0, 0, 1, 1, 2, 2}, nil, 2))
}

func TestEarcutStride(t *testing.T) {
	data := []float64{0, 0, 5, 10, 0, 5, 10, 10, 5, 0, 10, 5}
	tris := Earcut(data, nil, 3)
	assert.Len(t, tris, 6)
	for _, i := range tris {
		assert.Less(t, i, 4)
	}
}

func TestTess(t *testing.T) {
	for name, pts := range map[string][]common.Vec2{
		"square":    square(0, 0, 64, 64),
		"concave":   lShape,
		"clockwise": {{0, 128}, {64, 128}, {64, 64}, {128, 64}, {128, 0}, {0, 0}},
	} {
		tris := Tess(pts)
		require.Len(t, tris, (len(pts)-2)*3, name)
		assert.InDelta(t, common.PolygonArea2D(pts), triArea(pts, tris), 1e-9, name)
	}
}

func TestTessShortestDiagonal(t *testing.T) {
	pts := []common.Vec2{{0, 0}, {100, 0}, {100, 10}, {0, 10}}
	tris := Tess(pts)
	require.Len(t, tris, 6)
	assert.Len(t, Tess(pts[:2]), 0)
}

func TestDelaunay(t *testing.T) {
	// A thin quad where ear clipping may pick the long diagonal.
	pts := []common.Vec2{{0, 0}, {10, -1}, {20, 0}, {10, 1}}
	tris := Delaunay(pts)
	require.Len(t, tris, 6)
	assert.InDelta(t, common.PolygonArea2D(pts), triArea(pts, tris), 1e-9)
	for i := 0; i < len(tris); i += 3 {
		tri := tris[i : i+3]
		assert.Contains(t, tri, 1)
		assert.Contains(t, tri, 3)
	}

	tris = Delaunay(lShape)
	assert.Len(t, tris, 12)
	assert.InDelta(t, common.PolygonArea2D(lShape), triArea(lShape, tris), 1e-9)
}

func TestPolygonStrategies(t *testing.T) {
	pts := square(0, 0, 64, 64)
	for _, s := range append(Strategies, "unknown", "EARCUT") {
		assert.Len(t, Polygon(s, pts), 6, s)
	}
	assert.Equal(t, Earcut(common.Flatten2(lShape), nil, 2), Smallest(lShape))
}
