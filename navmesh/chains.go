package navmesh

import (
	"math"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/level"
)

// markerByTag returns the first marker whose thing carries tag.
func markerByTag(markers []*Marker, tag int) *Marker {
	for _, mk := range markers {
		if mk.Thing.HasTag(tag) {
			return mk
		}
	}
	return nil
}

func isLeapSpot(t *level.Thing) bool {
	return t.Type == level.ThingLeapSpot && len(t.Tags) > 0 && t.Tags[0] > 0 && t.Args[0] != 0
}

func firstTag(t *level.Thing) int {
	if len(t.Tags) == 0 {
		return 0
	}
	return t.Tags[0]
}

// findChains follows leap -> arc -> landing through arg0 tag references.
// A marker joins at most one chain.
func findChains(markers []*Marker) []*Chain {
	used := make(map[*Marker]bool)
	var chains []*Chain
	for _, leap := range markers {
		if !isLeapSpot(leap.Thing) || used[leap] {
			continue
		}
		arc := markerByTag(markers, leap.Thing.Args[0])
		if arc == nil || arc.Thing.Args[0] == 0 || used[arc] {
			continue
		}
		land := markerByTag(markers, arc.Thing.Args[0])
		if land == nil || used[land] {
			continue
		}
		used[leap], used[arc], used[land] = true, true, true
		chains = append(chains, &Chain{Leap: leap, Arc: arc, Land: land})
	}
	return chains
}

// containsMarker tests the marker against the polygon scaled to map units:
// inside the box grown by 2 in height, and inside the (x, z) outline.
func containsMarker(verts []common.Vec3, p common.Vec3) bool {
	box := common.NewBox3()
	pts := make([]common.Vec2, len(verts))
	for i, v := range verts {
		box.ExpandByPoint(v)
		pts[i] = common.Vec2{v[0], v[2]}
	}
	box.Min[1] -= 2
	box.Max[1] += 2
	return box.ContainsPoint(p) && common.PointInPolygon2D(pts, common.Vec2{p[0], p[2]})
}

func (m *Mesh) scaledPolygon(n *Node) []common.Vec3 {
	verts := m.Polygon(n)
	for i := range verts {
		verts[i] = verts[i].Mul(common.MapScaleInv)
	}
	return verts
}

// locate finds the polygon a grounded marker stands in. The last containing
// polygon wins; without one the nearest polygon is used.
func (b *Builder) locate(m *Mesh, polys []*Node, mk *Marker) *Node {
	var found *Node
	for _, n := range polys {
		if containsMarker(m.scaledPolygon(n), mk.Position) {
			found = n
		}
	}
	if found != nil {
		return found
	}
	b.log.Warn("nav thing outside every polygon, using the nearest",
		zap.Int("thing", mk.Thing.Index), zap.Int("type", mk.Thing.Type))

	closestCenter, closestVert := math.Inf(1), math.Inf(1)
	for _, n := range polys {
		d := common.VdistSqr(mk.Position, n.Centroid.Mul(common.MapScaleInv))
		if d > closestCenter {
			continue
		}
		closestCenter = d
		for _, v := range m.scaledPolygon(n) {
			if d := common.VdistSqr(mk.Position, v); d < closestVert {
				closestVert = d
				found = n
			}
		}
	}
	return found
}

// buildChains splices leap, arc and land nodes between the polygons under the
// leap and landing markers.
func (b *Builder) buildChains(m *Mesh, markers []*Marker) {
	chains := findChains(markers)
	if len(chains) == 0 {
		return
	}
	polys := append([]*Node(nil), m.Nodes...)
	for _, c := range chains {
		c.Start = b.locate(m, polys, c.Leap)
		c.End = b.locate(m, polys, c.Land)
	}

	for _, c := range chains {
		start, end := c.Start, c.End
		arcPos := c.Arc.Position.Mul(common.MapScale)
		leapPos := c.Leap.Position.Mul(common.MapScale)
		landPos := c.Land.Position.Mul(common.MapScale)
		m.Vertices = append(m.Vertices, arcPos, leapPos, landPos)
		arcV, leapV, landV := len(m.Vertices)-3, len(m.Vertices)-2, len(m.Vertices)-1

		leap := &Node{Index: len(m.Nodes), Centroid: leapPos, Flags: FlagLeap, Helper: firstTag(c.Leap.Thing)}
		arc := &Node{Index: len(m.Nodes) + 1, Centroid: arcPos, Flags: FlagArc, Helper: firstTag(c.Arc.Thing)}
		land := &Node{Index: len(m.Nodes) + 2, Centroid: landPos, Flags: FlagLand, Helper: firstTag(c.Land.Thing)}
		m.Nodes = append(m.Nodes, leap, arc, land)

		start.Neighbors = append(start.Neighbors, leap.Index)
		start.Connections = append(start.Connections, leap.Index)
		start.Portals = append(start.Portals, [2]int{leapV, leapV})

		leap.Connections = []int{start.Index, arc.Index}
		leap.Neighbors = []int{arc.Index}
		leap.Portals = [][2]int{{leapV, leapV}}
		leap.Vertices = []int{leapV, leapV, leapV}

		arc.Connections = []int{leap.Index, land.Index}
		arc.Neighbors = []int{land.Index}
		arc.Portals = [][2]int{{arcV, arcV}}
		arc.Vertices = []int{arcV, arcV, arcV}

		land.Connections = []int{end.Index, arc.Index}
		land.Neighbors = []int{end.Index}
		land.Portals = [][2]int{{landV, landV}}
		land.Vertices = []int{landV, landV, landV}

		end.Connections = append(end.Connections, land.Index)

		c.LeapNode, c.ArcNode, c.LandNode = leap, arc, land
		m.Chains = append(m.Chains, c)
	}
}
