package scene

import (
	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/floorplane"
	"github.com/gorustyt/udmfnav/level"
)

// Scenes holds the voxelizer input and the preview built from one level.
type Scenes struct {
	Nav     *Scene
	Preview *Scene
}

func walkable(fp *floorplane.FloorPlane) bool {
	return fp.Walkable()
}

func darkFloor(fp *floorplane.FloorPlane) bool {
	return !fp.IsFree && !fp.Is3DFloor && !fp.IsModel && fp.NoCast
}

func slab(fp *floorplane.FloorPlane) bool {
	return fp.Is3DFloor
}

func castingSlab(fp *floorplane.FloorPlane) bool {
	return fp.Is3DFloor && !fp.NoCast
}

// Build assembles both scenes. Each root is scaled by MapScale.
func Build(g *floorplane.Group, log *zap.Logger) *Scenes {
	log = common.OrNop(log)
	steps := g.Steps()
	walls3D := g.Walls3D()
	walls := g.Walls()

	// Voxelizer scene.
	nav := NewObject("level")
	nav.Scale = common.MapScale

	floors := NewMesh(NameFloors, MaterialSector)
	floors.AddFloor(g.Triangles(walkable))
	for _, s := range steps {
		if s.Walkable() {
			floors.AddTriangles(s.Triangles[:])
		}
	}
	floors.MergeVertices(MergeTolerance)
	nav.Add(&Object{Name: NameFloors, Mesh: floors})

	sectors3D := NewMesh(NameSectors3D, MaterialSector)
	sectors3D.AddFloor(g.Triangles(castingSlab))
	sectors3D.AddTriangles(walls3D)
	if !sectors3D.Empty() {
		sectors3D.MergeVertices(MergeTolerance)
		nav.Add(&Object{Name: NameSectors3D, Mesh: sectors3D})
	}

	wallsPreview, wallsSolid := wallObjects(walls)
	nav.Add(wallsPreview.Clone())

	// Preview scene.
	prev := NewObject("level")
	prev.Scale = common.MapScale

	if dark := g.Triangles(darkFloor); len(dark) > 0 {
		m := NewMesh(NameFloors, MaterialDark)
		m.AddFloor(dark)
		m.MergeVertices(MergeToleranceLoose)
		prev.Add(&Object{Name: NameFloors, Mesh: m})
	}
	prev.Add(wallsPreview, wallsSolid)

	prevFloors := NewMesh(NameFloors, MaterialSector)
	prevFloors.AddFloor(g.Triangles(walkable))
	tall := 0
	for _, s := range steps {
		prevFloors.AddTriangles(s.Triangles[:])
		if !s.Walkable() {
			tall++
		}
	}
	prevFloors.MergeVertices(MergeToleranceLoose)
	prev.Add(&Object{Name: NameFloors, Mesh: prevFloors})

	prev3D := NewMesh(NameSectors3D, MaterialSector)
	prev3D.AddFloor(g.Triangles(slab))
	prev3D.AddTriangles(walls3D)
	if !prev3D.Empty() {
		prev3D.MergeVertices(MergeTolerance)
		prev.Add(&Object{Name: NameSectors3D, Mesh: prev3D})
	}

	nodes := navNodes(g, log)
	prev.Add(nodes)
	nav.Add(nodes.Clone())

	log.Info("scene built",
		zap.Int("floorTriangles", floors.TriangleCount()),
		zap.Int("steps", len(steps)),
		zap.Int("tallSteps", tall),
		zap.Int("walls", len(walls)/2),
		zap.Int("walls3D", len(walls3D)/2),
		zap.Int("navNodes", len(nodes.Children)))
	return &Scenes{Nav: New(nav), Preview: New(prev)}
}

// wallObjects returns the merged wall preview and one solid mesh per wall quad.
func wallObjects(walls []floorplane.Triangle) (preview, solid *Object) {
	preview = NewObject(NameWallsPreview)
	solid = NewObject(NameWallsSolid)
	if len(walls) == 0 {
		return preview, solid
	}
	merged := NewMesh(NameWallsPreview, MaterialWall)
	for i := 0; i+1 < len(walls); i += 2 {
		m := NewMesh(NameWallsPreview, MaterialWall)
		m.AddTriangles(walls[i : i+2])
		m.MergeVertices(MergeTolerance)
		merged.Append(m)
		solid.Add(&Object{Mesh: m})
	}
	merged.MergeVertices(MergeTolerance)
	preview.Add(&Object{Name: NameWallsPreview, Mesh: merged})
	return preview, solid
}

// navNodes places every nav marker thing on its floor.
func navNodes(g *floorplane.Group, log *zap.Logger) *Object {
	nodes := NewObject(NameNavNodes)
	for i := range g.Level.Things {
		t := &g.Level.Things[i]
		if !t.IsNavMarker() {
			continue
		}
		h, _, ok := g.PlaceThing(t)
		if !ok {
			log.Warn("nav thing is not on any floor",
				zap.Int("thing", t.Index), zap.Int("type", t.Type),
				zap.Float64("x", t.X), zap.Float64("y", t.Y))
			continue
		}
		nodes.Add(&Object{
			Name:     NameNavNode,
			Position: common.Vec3{t.X, h, -t.Y},
			Thing:    t,
		})
	}
	return nodes
}

// NavThings returns the marker things and their scene positions, unscaled.
func NavThings(s *Scene) ([]*level.Thing, []common.Vec3) {
	var things []*level.Thing
	var pos []common.Vec3
	for _, n := range s.Root.FindAll(NameNavNode) {
		if n.Thing == nil {
			continue
		}
		things = append(things, n.Thing)
		pos = append(pos, n.Position)
	}
	return things, pos
}
