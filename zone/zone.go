// Package zone converts a built navmesh into the exported zone: integer map
// coordinates, compact per polygon records and the block grid descriptor.
package zone

import (
	"math"

	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/blockmap"
	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/navmesh"
)

// Node is one exported polygon. Positions are (x, -z, y) in map units.
type Node struct {
	C [3]int       `json:"c"`
	P [][2]int     `json:"p"`
	V []int        `json:"v"`
	N []int        `json:"n"`
	M int          `json:"m"`
	G int          `json:"g"`
	B []int        `json:"b"`
	F navmesh.Flag `json:"f,omitempty"`
	H int          `json:"h,omitempty"`
}

type Zone struct {
	Vertices []int  `json:"vertices"`
	Nodes    []Node `json:"nodes"`
	Groups   int    `json:"groups"`
	Length   int    `json:"length"`
	SizeX    int    `json:"sizex"`
	SizeY    int    `json:"sizey"`
	OriginX  int    `json:"originx"`
	OriginY  int    `json:"originy"`
	Res      int    `json:"res"`
}

// Vertex returns vertex i in map units.
func (z *Zone) Vertex(i int) [3]int {
	return [3]int{z.Vertices[i*3], z.Vertices[i*3+1], z.Vertices[i*3+2]}
}

// toMap scales a voxelizer position to map units, floors it and swaps it into
// (x, -z, y).
func toMap(v common.Vec3) [3]int {
	v = common.Vfloor(v.Mul(common.MapScaleInv))
	return [3]int{int(v[0]), int(-v[2]), int(v[1])}
}

type builder struct {
	bounds common.Box2
}

func (b *builder) pos(v common.Vec3) [3]int {
	p := toMap(v)
	b.bounds.ExpandByPoint(common.Vec2{float64(p[0]), float64(p[1])})
	return p
}

// Build exports the mesh. Nodes are numbered group by group; N holds the
// group local ids of the neighbours.
func Build(m *navmesh.Mesh, log *zap.Logger) *Zone {
	log = common.OrNop(log)
	b := &builder{bounds: common.NewBox2()}
	z := &Zone{
		Vertices: make([]int, 0, len(m.Vertices)*3),
		Nodes:    make([]Node, 0, len(m.Nodes)),
		Groups:   len(m.Groups),
		Res:      blockmap.Resolution,
	}
	for _, v := range m.Vertices {
		p := b.pos(v)
		z.Vertices = append(z.Vertices, p[:]...)
	}

	for gi, grp := range m.Groups {
		for _, n := range grp {
			z.Nodes = append(z.Nodes, Node{
				C: b.pos(n.Centroid),
				P: append([][2]int{}, n.Portals...),
				V: append([]int{}, n.Vertices...),
				N: append([]int{}, n.LocalNeighbors...),
				M: len(z.Nodes),
				G: gi,
				F: n.Flags,
				H: n.Helper,
			})
		}
	}

	grid := blockmap.New(b.bounds, log)
	for i := range z.Nodes {
		node := &z.Nodes[i]
		pts := make([]common.Vec2, len(node.V))
		for k, vi := range node.V {
			p := z.Vertex(vi)
			pts[k] = common.Vec2{float64(p[0]), float64(p[1])}
		}
		node.B = append([]int{}, grid.AddPolygon(node.M, pts)...)
	}
	size, origin := grid.Size(), grid.Origin()
	z.Length = grid.Length()
	z.SizeX, z.SizeY = size[0], size[1]
	z.OriginX, z.OriginY = int(math.Floor(origin[0])), int(math.Floor(origin[1]))

	log.Info("zone exported",
		zap.Int("nodes", len(z.Nodes)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("groups", z.Groups),
		zap.Int("cells", z.Length))
	return z
}
