package floorplane

import (
	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/level"
	"github.com/gorustyt/udmfnav/triangulate"
)

// Triangle is three points in map space, {x, height, y}.
type Triangle [3]common.Vec3

// Normal is the unnormalized face normal.
func (t Triangle) Normal() common.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
}

// quad splits the corner loop c0..c3 into two triangles.
func quad(c [4]common.Vec3) [2]Triangle {
	return [2]Triangle{{c[1], c[2], c[0]}, {c[0], c[2], c[3]}}
}

// flipped reverses the winding of a quad.
func flipped(q [2]Triangle) [2]Triangle {
	return [2]Triangle{{q[1][2], q[1][1], q[1][0]}, {q[0][2], q[0][1], q[0][0]}}
}

func mapPoint(v *level.Vertex, h float64) common.Vec3 {
	return common.Vec3{v.X, h, v.Y}
}

// FloorPlane is one walkable surface of a sector. A 3D floor plane belongs to
// the target sector and takes its heights from the model sector.
type FloorPlane struct {
	Sector int
	Model  int

	Is3DFloor bool
	IsModel   bool
	IsFree    bool
	IsSloped  bool
	NoCast    bool

	Shapes      []*Shape
	Triangles2D [][3]int
	Triangles3D []Triangle
	Walls       []Triangle

	lvl *level.Level
}

// NewFloorPlane extracts, classifies and triangulates the floor of sector.
func NewFloorPlane(lvl *level.Level, sector int) (*FloorPlane, error) {
	shapes, err := ExtractShapes(lvl, sector)
	if err != nil {
		return nil, err
	}
	roots, err := Classify(shapes)
	if err != nil {
		return nil, err
	}
	s := lvl.Sector(sector)
	fp := &FloorPlane{
		Sector:   sector,
		Model:    -1,
		IsModel:  s.IsModel,
		IsFree:   s.IsFree,
		IsSloped: s.SlopedFloor || s.TerrainFloor,
		NoCast:   s.NoCast,
		Shapes:   roots,
		lvl:      lvl,
	}
	fp.triangulate()
	for _, tri := range fp.Triangles2D {
		var t Triangle
		for k, vi := range tri {
			v := lvl.Vertex(vi)
			t[k] = mapPoint(v, s.VertexZ(v, true))
		}
		fp.Triangles3D = append(fp.Triangles3D, t)
	}
	return fp, nil
}

// New3DFloor stacks the model sector's slab over base: its top is the model
// ceiling, its underside the model floor, and two sided boundary lines get
// walls between the two.
func New3DFloor(base *FloorPlane, model int) *FloorPlane {
	lvl := base.lvl
	m := lvl.Sector(model)
	fp := &FloorPlane{
		Sector:      base.Sector,
		Model:       model,
		Is3DFloor:   true,
		IsSloped:    m.SlopedCeiling || m.TerrainCeiling,
		NoCast:      base.NoCast,
		Shapes:      base.Shapes,
		Triangles2D: base.Triangles2D,
		lvl:         lvl,
	}
	for _, at := range []func(x, y float64) float64{fp.ZAt, fp.BottomAt} {
		for _, tri := range fp.Triangles2D {
			var t Triangle
			for k, vi := range tri {
				v := lvl.Vertex(vi)
				t[k] = mapPoint(v, at(v.X, v.Y))
			}
			fp.Triangles3D = append(fp.Triangles3D, t)
		}
	}
	for _, sh := range fp.Shapes {
		for _, li := range sh.Lines {
			ld := lvl.LineDef(li)
			if ld.IsFree || !ld.TwoSided {
				continue
			}
			v1, v2 := lvl.Vertex(ld.V1), lvl.Vertex(ld.V2)
			q := quad([4]common.Vec3{
				mapPoint(v1, fp.BottomAt(v1.X, v1.Y)),
				mapPoint(v1, fp.ZAt(v1.X, v1.Y)),
				mapPoint(v2, fp.ZAt(v2.X, v2.Y)),
				mapPoint(v2, fp.BottomAt(v2.X, v2.Y)),
			})
			fp.Walls = append(fp.Walls, q[0], q[1])
		}
	}
	return fp
}

func (fp *FloorPlane) triangulate() {
	for _, root := range fp.Shapes {
		verts := append([]int(nil), root.Vertices...)
		outer := root.Points(fp.lvl)
		var holes [][]common.Vec2
		for _, h := range root.Holes() {
			verts = append(verts, h.Vertices...)
			holes = append(holes, h.Points(fp.lvl))
		}
		data, holeIndices := triangulate.Rings(outer, holes...)
		idx := triangulate.Earcut(data, holeIndices, 2)
		for i := 0; i+2 < len(idx); i += 3 {
			fp.Triangles2D = append(fp.Triangles2D, [3]int{verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]]})
		}
	}
}

// ZAt is the walkable height at (x, y).
func (fp *FloorPlane) ZAt(x, y float64) float64 {
	if fp.Is3DFloor {
		return fp.lvl.SurfaceZ(fp.Model, false, x, y)
	}
	return fp.lvl.SurfaceZ(fp.Sector, true, x, y)
}

// BottomAt is the underside of a 3D floor slab, or the floor itself otherwise.
func (fp *FloorPlane) BottomAt(x, y float64) float64 {
	if fp.Is3DFloor {
		return fp.lvl.SurfaceZ(fp.Model, true, x, y)
	}
	return fp.ZAt(x, y)
}

// HasThing reports whether the thing stands inside one of the root shapes.
func (fp *FloorPlane) HasThing(t *level.Thing) bool {
	p := t.V()
	for _, s := range fp.Shapes {
		if s.ContainsPoint(fp.lvl, p) {
			return true
		}
	}
	return false
}

// Walkable excludes free sectors, 3D floor slabs, model sectors and no-cast sectors.
func (fp *FloorPlane) Walkable() bool {
	return !fp.IsFree && !fp.Is3DFloor && !fp.IsModel && !fp.NoCast
}
