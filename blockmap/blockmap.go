// Package blockmap partitions the exported navmesh into a uniform grid and
// records which cells every polygon touches.
package blockmap

import (
	"math"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/triangulate"
)

const (
	// Resolution is the cell edge in map units.
	Resolution = 256
	// CellDepth is the height of every cell column.
	CellDepth = 2000000
)

// SnapGrid pads box to whole cells with an even cell count on both axes and an
// even cell center. A box that is already snapped is returned unchanged.
func SnapGrid(box common.Box2) common.Box2 {
	center := box.Center().Mul(1.0 / Resolution)
	size := box.Size().Mul(1.0 / Resolution)
	if isSnapped(center, size) {
		return box
	}
	for i := 0; i < 2; i++ {
		center[i] = math.Floor(center[i])
		size[i] = math.Floor(size[i])
		if math.Mod(size[i], 2) != 0 {
			size[i] += 5
		} else {
			size[i] += 4
		}
		if math.Mod(center[i], 2) != 0 {
			center[i]++
		}
	}
	return common.Box2FromCenterAndSize(center.Mul(Resolution), size.Mul(Resolution))
}

func isSnapped(center, size common.Vec2) bool {
	for i := 0; i < 2; i++ {
		if size[i] == 0 || size[i] != math.Trunc(size[i]) || math.Mod(size[i], 2) != 0 {
			return false
		}
		if center[i] != math.Trunc(center[i]) || math.Mod(center[i], 2) != 0 {
			return false
		}
	}
	return true
}

// Grid is a snapped box split into Resolution sized cells. Cells run row by
// row from the top (max y) down, and left to right inside a row; both the
// right and the bottom edge of the box start a cell, so there are
// (Rows+1)*(Cols+1) of them.
type Grid struct {
	Box        common.Box2
	Cols, Rows int
	Cells      []common.Box3
	// Occupants lists the polygon ids added to each cell.
	Occupants [][]int

	log *zap.Logger
}

// New snaps box and lays out its cells.
func New(box common.Box2, log *zap.Logger) *Grid {
	box = SnapGrid(box)
	size := box.Size()
	g := &Grid{
		Box:  box,
		Cols: int(size[0] / Resolution),
		Rows: int(size[1] / Resolution),
		log:  common.OrNop(log),
	}
	cellSize := common.Vec3{Resolution, Resolution, CellDepth}
	for r := 0; r <= g.Rows; r++ {
		y := box.Max[1] - float64(r*Resolution)
		for c := 0; c <= g.Cols; c++ {
			x := box.Min[0] + float64(c*Resolution)
			center := common.Vec3{x + Resolution/2, y - Resolution/2, 0}
			g.Cells = append(g.Cells, common.Box3FromCenterAndSize(center, cellSize))
		}
	}
	g.Occupants = make([][]int, len(g.Cells))
	return g
}

// Length is the number of cells.
func (g *Grid) Length() int { return len(g.Cells) }

// Origin is the top left corner of the grid.
func (g *Grid) Origin() common.Vec2 { return common.Vec2{g.Box.Min[0], g.Box.Max[1]} }

// Size is the grid extent in cells.
func (g *Grid) Size() [2]int { return [2]int{g.Cols, g.Rows} }

// Cell returns the index of the cell whose box holds p, or -1.
func (g *Grid) Cell(p common.Vec2) int {
	col := int(math.Floor((p[0] - g.Box.Min[0]) / Resolution))
	row := int(math.Floor((g.Box.Max[1] - p[1]) / Resolution))
	if col < 0 || col > g.Cols || row < 0 || row > g.Rows {
		return -1
	}
	return row*(g.Cols+1) + col
}

// AddPolygon ear clips the polygon on (x, y) and returns every cell one of
// its triangles touches, in cell order. A polygon without area is tested as
// the point of its first vertex.
func (g *Grid) AddPolygon(id int, verts []common.Vec2) []int {
	pts := make([]common.Vec3, len(verts))
	for i, v := range verts {
		pts[i] = common.Vec3{v[0], v[1], 0}
	}
	var tris [][3]common.Vec3
	idx := triangulate.Earcut(common.Flatten2(verts), nil, 2)
	for i := 0; i+2 < len(idx); i += 3 {
		tris = append(tris, [3]common.Vec3{pts[idx[i]], pts[idx[i+1]], pts[idx[i+2]]})
	}
	if len(tris) == 0 && len(pts) > 0 {
		tris = append(tris, [3]common.Vec3{pts[0], pts[0], pts[0]})
	}

	var cells []int
	for ci, box := range g.Cells {
		for _, t := range tris {
			if box.IntersectsTriangle(t[0], t[1], t[2]) {
				cells = append(cells, ci)
				g.Occupants[ci] = append(g.Occupants[ci], id)
				break
			}
		}
	}
	if len(cells) == 0 {
		g.log.Warn("polygon occupies no grid cell", zap.Int("polygon", id), zap.Int("vertices", len(verts)))
	}
	return cells
}
