// Package triangulate splits polygons into triangles.
package triangulate

import (
	"strings"

	"github.com/gorustyt/udmfnav/common"
)

// Strategy names accepted by Polygon.
const (
	StrategyEarcut   = "earcut"
	StrategyTess     = "tess"
	StrategyDelaunay = "delaunay"
	StrategySmallest = "smallest"
)

// Strategies lists the accepted names.
var Strategies = []string{StrategyEarcut, StrategyTess, StrategyDelaunay, StrategySmallest}

// Polygon triangulates a simple ring with the named strategy. Unknown names use tess.
func Polygon(strategy string, pts []common.Vec2) []int {
	switch strings.ToLower(strategy) {
	case StrategySmallest:
		return Smallest(pts)
	case StrategyEarcut:
		return Earcut(common.Flatten2(pts), nil, 2)
	case StrategyDelaunay:
		return Delaunay(pts)
	}
	return Tess(pts)
}

// Smallest runs earcut, tess and delaunay and keeps the result with the fewest
// triangles. Ties keep the earlier strategy. Empty results are skipped.
func Smallest(pts []common.Vec2) []int {
	var best []int
	for _, tris := range [][]int{
		Earcut(common.Flatten2(pts), nil, 2),
		Tess(pts),
		Delaunay(pts),
	} {
		if len(tris) == 0 {
			continue
		}
		if best == nil || len(tris) < len(best) {
			best = tris
		}
	}
	return best
}

// Rings flattens an outer ring and its holes for Earcut and returns the hole start indices.
func Rings(outer []common.Vec2, holes ...[]common.Vec2) (data []float64, holeIndices []int) {
	data = common.Flatten2(outer)
	n := len(outer)
	for _, h := range holes {
		holeIndices = append(holeIndices, n)
		data = append(data, common.Flatten2(h)...)
		n += len(h)
	}
	return data, holeIndices
}
