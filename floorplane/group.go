// Package floorplane derives walkable surfaces from a level: sector boundary
// rings, triangulated floors, stacked 3D floors, steps and walls.
package floorplane

import (
	"math"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/level"
)

// MaxStepHeight is the tallest step an agent walks up.
const MaxStepHeight = 24.0

type Step struct {
	Line      int
	Height    float64
	Triangles [2]Triangle
}

func (s Step) Walkable() bool {
	return s.Height <= MaxStepHeight
}

// Group holds every floor plane of a level.
type Group struct {
	Level  *level.Level
	Planes []*FloorPlane

	log *zap.Logger
}

// NewGroup builds the floor plane of every sector and one extra plane per 3D
// floor model hosted by a sector. Any boundary walk failure aborts the build.
func NewGroup(lvl *level.Level, log *zap.Logger) (*Group, error) {
	g := &Group{Level: lvl, log: common.OrNop(log)}
	for i := range lvl.Sectors {
		fp, err := NewFloorPlane(lvl, i)
		if err != nil {
			return nil, err
		}
		g.Planes = append(g.Planes, fp)
		for _, m := range lvl.Sectors[i].ModelSectors {
			g.Planes = append(g.Planes, New3DFloor(fp, m))
		}
	}
	g.log.Info("floor planes built",
		zap.Int("planes", len(g.Planes)),
		zap.Int("walkable", len(g.Filter((*FloorPlane).Walkable))))
	return g, nil
}

// Filter returns the planes accepted by keep, in build order.
func (g *Group) Filter(keep func(*FloorPlane) bool) []*FloorPlane {
	var out []*FloorPlane
	for _, fp := range g.Planes {
		if keep(fp) {
			out = append(out, fp)
		}
	}
	return out
}

// Triangles gathers the 3D triangles of the planes accepted by keep.
func (g *Group) Triangles(keep func(*FloorPlane) bool) []Triangle {
	var out []Triangle
	for _, fp := range g.Filter(keep) {
		out = append(out, fp.Triangles3D...)
	}
	return out
}

// Walls3D gathers the side walls of every 3D floor slab.
func (g *Group) Walls3D() []Triangle {
	var out []Triangle
	for _, fp := range g.Planes {
		out = append(out, fp.Walls...)
	}
	return out
}

// Steps builds a quad between the front and back floors of every two sided line.
func (g *Group) Steps() []Step {
	lvl := g.Level
	var steps []Step
	for i := range lvl.Linedefs {
		ld := &lvl.Linedefs[i]
		if ld.IsFree || !ld.TwoSided || ld.Front.Sector < 0 || ld.Back.Sector < 0 {
			continue
		}
		front, back := lvl.Sector(ld.Front.Sector), lvl.Sector(ld.Back.Sector)
		v1, v2 := lvl.Vertex(ld.V1), lvl.Vertex(ld.V2)
		c := [4]common.Vec3{
			mapPoint(v1, front.VertexZ(v1, true)),
			mapPoint(v1, back.VertexZ(v1, true)),
			mapPoint(v2, back.VertexZ(v2, true)),
			mapPoint(v2, front.VertexZ(v2, true)),
		}
		if c[0] == c[1] && c[2] == c[3] {
			continue
		}
		steps = append(steps, Step{
			Line:      i,
			Height:    quadHeight(c),
			Triangles: flipped(quad(c)),
		})
	}
	return steps
}

// Walls builds a floor to ceiling quad for every one sided line that casts.
func (g *Group) Walls() []Triangle {
	lvl := g.Level
	var out []Triangle
	for i := range lvl.Linedefs {
		ld := &lvl.Linedefs[i]
		if ld.IsFree || ld.TwoSided || ld.NoCast || ld.Front.Sector < 0 {
			continue
		}
		s := lvl.Sector(ld.Front.Sector)
		v1, v2 := lvl.Vertex(ld.V1), lvl.Vertex(ld.V2)
		c := [4]common.Vec3{
			mapPoint(v1, s.VertexZ(v1, true)),
			mapPoint(v1, s.VertexZ(v1, false)),
			mapPoint(v2, s.VertexZ(v2, false)),
			mapPoint(v2, s.VertexZ(v2, true)),
		}
		if c[0] == c[1] && c[2] == c[3] {
			continue
		}
		q := flipped(quad(c))
		out = append(out, q[0], q[1])
	}
	return out
}

func quadHeight(c [4]common.Vec3) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range c {
		lo = math.Min(lo, p[1])
		hi = math.Max(hi, p[1])
	}
	return hi - lo
}

// PlaceThing finds the floor a thing stands on. When several planes claim it
// the lowest resulting height wins.
func (g *Group) PlaceThing(t *level.Thing) (h float64, plane *FloorPlane, ok bool) {
	for _, fp := range g.Planes {
		if fp.IsModel || !fp.HasThing(t) {
			continue
		}
		z := fp.ZAt(t.X, t.Y) + t.Height
		if !ok || z < h {
			h, plane, ok = z, fp, true
		}
	}
	return h, plane, ok
}
