package scene

import (
	"math"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/floorplane"
)

type Material string

const (
	MaterialSector Material = "sector"
	MaterialWall   Material = "wall"
	MaterialDark   Material = "dark"
	MaterialNode   Material = "node"
)

// Vertex merge tolerances.
const (
	MergeTolerance      = 1e-4
	MergeToleranceLoose = 1e-3
)

// Mesh is an indexed triangle list in scene space.
type Mesh struct {
	Name      string        `json:"name,omitempty"`
	Material  Material      `json:"material"`
	Positions []common.Vec3 `json:"positions"`
	Indices   []int         `json:"indices"`
}

func NewMesh(name string, mat Material) *Mesh {
	return &Mesh{Name: name, Material: mat}
}

// toScene maps {x, height, y} map space to the right handed scene frame.
func toScene(p common.Vec3) common.Vec3 {
	return common.Vec3{p[0], p[1], -p[2]}
}

// AddTriangle appends one triangle already in scene space.
func (m *Mesh) AddTriangle(t [3]common.Vec3) {
	base := len(m.Positions)
	m.Positions = append(m.Positions, t[0], t[1], t[2])
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// AddTriangles appends map space triangles unchanged apart from the frame flip.
func (m *Mesh) AddTriangles(tris []floorplane.Triangle) {
	for _, t := range tris {
		m.AddTriangle([3]common.Vec3{toScene(t[0]), toScene(t[1]), toScene(t[2])})
	}
}

// AddFloor appends triangles wound so their normal points up.
func (m *Mesh) AddFloor(tris []floorplane.Triangle) {
	for _, t := range tris {
		s := [3]common.Vec3{toScene(t[0]), toScene(t[1]), toScene(t[2])}
		if s[1].Sub(s[0]).Cross(s[2].Sub(s[0]))[1] < 0 {
			s[1], s[2] = s[2], s[1]
		}
		m.AddTriangle(s)
	}
}

// Append copies another mesh into m.
func (m *Mesh) Append(o *Mesh) {
	base := len(m.Positions)
	m.Positions = append(m.Positions, o.Positions...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// MergeVertices welds positions that round to the same point at tol.
// Triangles that collapse are dropped.
func (m *Mesh) MergeVertices(tol float64) {
	type key [3]int64
	q := func(v float64) int64 { return int64(math.Round(v / tol)) }
	seen := make(map[key]int, len(m.Positions))
	remap := make([]int, len(m.Positions))
	var pos []common.Vec3
	for i, p := range m.Positions {
		k := key{q(p[0]), q(p[1]), q(p[2])}
		j, ok := seen[k]
		if !ok {
			j = len(pos)
			seen[k] = j
			pos = append(pos, p)
		}
		remap[i] = j
	}
	idx := m.Indices[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := remap[m.Indices[i]], remap[m.Indices[i+1]], remap[m.Indices[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		idx = append(idx, a, b, c)
	}
	m.Positions = pos
	m.Indices = idx
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Bounds is the box of all positions.
func (m *Mesh) Bounds() common.Box3 {
	b := common.NewBox3()
	for _, p := range m.Positions {
		b.ExpandByPoint(p)
	}
	return b
}
