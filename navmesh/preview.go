package navmesh

import (
	"io"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/scene"
	"github.com/gorustyt/udmfnav/triangulate"
)

// NodePreview is attached to every per polygon preview mesh.
type NodePreview struct {
	NodeIndex int         `json:"nodeIndex"`
	Centroid  common.Vec3 `json:"centroid"`
}

// Triangles splits a polygon node with the named strategy, in voxelizer units.
// Chain nodes have no area and yield nothing.
func (m *Mesh) Triangles(n *Node, strategy string) [][3]common.Vec3 {
	if n.Flags.Has(FlagLeap) || n.Flags.Has(FlagArc) || n.Flags.Has(FlagLand) {
		return nil
	}
	verts := m.Polygon(n)
	pts := make([]common.Vec2, len(verts))
	for i, v := range verts {
		pts[i] = common.Vec2{v[0], v[2]}
	}
	idx := triangulate.Polygon(strategy, pts)
	out := make([][3]common.Vec3, 0, len(idx)/3)
	for i := 0; i+2 < len(idx); i += 3 {
		out = append(out, [3]common.Vec3{verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]]})
	}
	return out
}

// Preview builds the navmesh preview: the merged "navmesh" mesh, one mesh per
// polygon and an "offnode.vis" node for every chained marker.
func (m *Mesh) Preview(strategy string) *scene.Scene {
	root := scene.NewObject("navmesh.preview")
	merged := scene.NewMesh(scene.NameNavmesh, scene.MaterialSector)
	polys := scene.NewObject("navmesh.nodes")
	count := 0
	for _, grp := range m.Groups {
		for _, n := range grp {
			tris := m.Triangles(n, strategy)
			if len(tris) == 0 {
				continue
			}
			pm := scene.NewMesh("", scene.MaterialSector)
			for _, t := range tris {
				pm.AddTriangle(t)
			}
			pm.MergeVertices(scene.MergeTolerance)
			merged.Append(pm)
			polys.Add(&scene.Object{
				Mesh:     pm,
				UserData: NodePreview{NodeIndex: count, Centroid: n.Centroid},
			})
			count++
		}
	}
	merged.MergeVertices(scene.MergeTolerance)
	root.Add(&scene.Object{Name: scene.NameNavmesh, Mesh: merged}, polys)

	for _, c := range m.Chains {
		for _, mk := range []*Marker{c.Leap, c.Arc, c.Land} {
			root.Add(&scene.Object{
				Name:     scene.NameOffNodeVis,
				Position: mk.Position.Mul(common.MapScale),
				Thing:    mk.Thing,
			})
		}
	}
	return scene.New(root)
}

// WritePreviewOBJ writes the merged navmesh scaled back to map units.
func WritePreviewOBJ(w io.Writer, preview *scene.Scene) error {
	root := scene.NewObject("navprev")
	root.Scale = common.MapScaleInv
	if nm := preview.Find(scene.NameNavmesh); nm != nil {
		root.Add(&scene.Object{Name: nm.Name, Mesh: nm.Mesh})
	}
	return scene.WriteOBJ(w, scene.New(root))
}

// Markers converts the placed nav nodes of a level scene into chain markers.
func Markers(s *scene.Scene) []*Marker {
	things, pos := scene.NavThings(s)
	out := make([]*Marker, len(things))
	for i := range things {
		out[i] = &Marker{Thing: things[i], Position: pos[i]}
	}
	return out
}
