// Package navmesh turns the voxelizer's polygon soup into a grouped,
// portal connected graph with leap/arc/land off-mesh chains spliced in.
package navmesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/level"
)

const (
	// dedupeDistSqr is the squared distance under which soup vertices are merged.
	dedupeDistSqr = 1e-5
	maxFloodSteps = 1000000
)

// Node is a navmesh polygon, or a single point node of an off-mesh chain.
type Node struct {
	Index       int
	Centroid    common.Vec3
	Vertices    []int
	Edges       [][2]int
	Portals     [][2]int
	Neighbors   []int
	Connections []int
	Flags       Flag
	Helper      int

	// Set by grouping. ID is the position inside the group; LocalNeighbors
	// are Neighbors translated to group positions.
	Group          int
	ID             int
	LocalNeighbors []int
}

func (n *Node) linked(o *Node) bool {
	return common.IndexOf(n.Neighbors, o.Index) >= 0 || common.IndexOf(o.Neighbors, n.Index) >= 0
}

// Marker is a nav thing placed in the level, in unscaled scene units (x, height, -y).
type Marker struct {
	Thing    *level.Thing
	Position common.Vec3
}

// Chain is one leap, arc and landing triple and the nodes built from it.
type Chain struct {
	Leap, Arc, Land *Marker
	Start, End      *Node

	LeapNode, ArcNode, LandNode *Node
}

// Mesh is the built graph. Vertices are in voxelizer units.
type Mesh struct {
	Vertices []common.Vec3
	Nodes    []*Node
	Groups   [][]*Node
	Chains   []*Chain
}

type Builder struct {
	log *zap.Logger
}

func NewBuilder(log *zap.Logger) *Builder {
	return &Builder{log: common.OrNop(log)}
}

// Build sorts the soup by ref, welds vertices, finds portals, splices chains
// between markers and flood fills the groups.
func (b *Builder) Build(soup Soup, markers []*Marker) (*Mesh, error) {
	if len(soup) == 0 {
		return nil, ErrEmptySoup
	}
	soup = append(Soup(nil), soup...)
	soup.SortByRef()

	m := &Mesh{}
	for i, poly := range soup {
		if len(poly.Vertices) < 3 {
			return nil, fmt.Errorf("%w: polygon ref %d has %d vertices", ErrBadSoup, poly.Ref, len(poly.Vertices))
		}
		n := &Node{Index: i, Centroid: polygonCentroid(poly.Vertices)}
		for _, v := range poly.Vertices {
			n.Vertices = append(n.Vertices, m.vertexIndex(v))
		}
		for k, v := range n.Vertices {
			n.Edges = append(n.Edges, [2]int{v, n.Vertices[common.Next(k, len(n.Vertices))]})
		}
		m.Nodes = append(m.Nodes, n)
	}

	for _, a := range m.Nodes {
		for _, c := range m.Nodes {
			linkShared(a, c)
		}
	}

	b.buildChains(m, markers)
	if err := b.group(m); err != nil {
		return nil, err
	}
	b.log.Info("navmesh built",
		zap.Int("polygons", len(soup)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("chains", len(m.Chains)),
		zap.Int("groups", len(m.Groups)))
	return m, nil
}

// vertexIndex returns the pooled vertex within dedupeDistSqr of v, adding v if none is.
func (m *Mesh) vertexIndex(v common.Vec3) int {
	for i, p := range m.Vertices {
		if common.VdistSqr(v, p) < dedupeDistSqr {
			return i
		}
	}
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// polygonCentroid is the area weighted centroid on (x, z) with the height of the box center.
func polygonCentroid(verts []common.Vec3) common.Vec3 {
	pts := make([]common.Vec2, len(verts))
	box := common.NewBox3()
	for i, v := range verts {
		pts[i] = common.Vec2{v[0], v[2]}
		box.ExpandByPoint(v)
	}
	c := common.PolygonCentroid2D(pts)
	return common.Vec3{c[0], box.Center()[1], c[1]}
}

func sameEdge(a, b [2]int) bool {
	return (a[0] == b[0] && a[1] == b[1]) || (a[0] == b[1] && a[1] == b[0])
}

// linkShared links a and b through the first edge they share. A pair is linked once.
func linkShared(a, b *Node) {
	if a.Index == b.Index || a.linked(b) {
		return
	}
	for _, ea := range a.Edges {
		for _, eb := range b.Edges {
			if !sameEdge(ea, eb) {
				continue
			}
			a.Neighbors = append(a.Neighbors, b.Index)
			b.Neighbors = append(b.Neighbors, a.Index)
			a.Connections = append(a.Connections, b.Index)
			b.Connections = append(b.Connections, a.Index)
			a.Portals = append(a.Portals, ea)
			b.Portals = append(b.Portals, eb)
			return
		}
	}
}

// Polygon returns the vertex positions of a node.
func (m *Mesh) Polygon(n *Node) []common.Vec3 {
	out := make([]common.Vec3, len(n.Vertices))
	for i, v := range n.Vertices {
		out[i] = m.Vertices[v]
	}
	return out
}
