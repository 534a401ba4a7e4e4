package level

import (
	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/udmf"
)

// Nav marker thing types.
const (
	ThingLeapSpot   = 16006
	ThingNavMinType = 16006
	ThingNavMaxType = 16013
)

// Special160 is Sector_Set3dFloor.
const Special160 = 160

type Vertex struct {
	Index    int
	X, Y     float64
	ZFloor   *float64
	ZCeiling *float64
	Fields   udmf.Fields
}

func (v *Vertex) V() common.Vec2 {
	return common.Vec2{v.X, v.Y}
}

func (v *Vertex) DistanceTo(o *Vertex) float64 {
	return common.Vdist2D(v.V(), o.V())
}

// Plane is a UDMF plane equation ax + by + cz + d = 0.
type Plane struct {
	A, B, C, D float64
}

func (p Plane) Z(x, y float64) float64 {
	return common.PlaneZ(p.A, p.B, p.C, p.D, x, y)
}

type Sector struct {
	Index         int
	HeightFloor   float64
	HeightCeiling float64
	FloorPlane    Plane
	CeilingPlane  Plane
	NoCast        bool
	Tags          []int

	Sidedefs  []int
	Linedefs  []int
	Vertices  []int
	Neighbors []int
	Bounds    common.Box2

	IsFree         bool
	SlopedFloor    bool
	SlopedCeiling  bool
	TerrainFloor   bool
	TerrainCeiling bool
	IsModel        bool
	HasFloors3D    bool
	ModelLines     []int
	ModelSectors   []int

	Fields udmf.Fields
}

func (s *Sector) HasVertex(v int) bool {
	return common.IndexOf(s.Vertices, v) >= 0
}

func (s *Sector) HasTag(tag int) bool {
	return common.IndexOf(s.Tags, tag) >= 0
}

func (s *Sector) addModel(line, sector int) {
	s.ModelLines = common.AppendUnique(s.ModelLines, line)
	s.ModelSectors = common.AppendUnique(s.ModelSectors, sector)
}

// VertexZ resolves the floor (or ceiling) height at v: plane equation first,
// then the vertex override of a terrain sector, then the flat height.
func (s *Sector) VertexZ(v *Vertex, floor bool) float64 {
	if floor {
		if s.SlopedFloor {
			return s.FloorPlane.Z(v.X, v.Y)
		}
		if s.TerrainFloor && v.ZFloor != nil {
			return *v.ZFloor
		}
		return s.HeightFloor
	}
	if s.SlopedCeiling {
		return s.CeilingPlane.Z(v.X, v.Y)
	}
	if s.TerrainCeiling && v.ZCeiling != nil {
		return *v.ZCeiling
	}
	return s.HeightCeiling
}

// TerrainZ is VertexZ without the plane equation.
func (s *Sector) TerrainZ(v *Vertex, floor bool) float64 {
	if floor {
		if s.TerrainFloor && v.ZFloor != nil {
			return *v.ZFloor
		}
		return s.HeightFloor
	}
	if s.TerrainCeiling && v.ZCeiling != nil {
		return *v.ZCeiling
	}
	return s.HeightCeiling
}

type SideDef struct {
	Index  int
	Sector int
	Fields udmf.Fields
}

// Side is one side of a linedef. Both fields are -1 when the side is absent.
type Side struct {
	Sidedef int
	Sector  int
}

type LineDef struct {
	Index    int
	V1, V2   int
	Front    Side
	Back     Side
	Special  int
	Args     [5]int
	Tags     []int
	Length   float64
	IsFree   bool
	IsModel  bool
	TwoSided bool
	NoCast   bool
	Fields   udmf.Fields
}

func (l *LineDef) Sectors() [2]int {
	return [2]int{l.Front.Sector, l.Back.Sector}
}

func (l *LineDef) HasVertex(v int) bool {
	return l.V1 == v || l.V2 == v
}

// OtherVertex returns the endpoint opposite v, or -1 when v is not an endpoint.
func (l *LineDef) OtherVertex(v int) int {
	switch v {
	case l.V1:
		return l.V2
	case l.V2:
		return l.V1
	}
	return -1
}

// OtherSector returns the sector across the line from s, or -1.
func (l *LineDef) OtherSector(s int) int {
	switch s {
	case l.Front.Sector:
		return l.Back.Sector
	case l.Back.Sector:
		return l.Front.Sector
	}
	return -1
}

func (l *LineDef) HasSector(s int) bool {
	return s >= 0 && (l.Front.Sector == s || l.Back.Sector == s)
}

type Thing struct {
	Index  int
	X, Y   float64
	Height float64
	Angle  int
	Type   int
	Args   [5]int
	Tags   []int
	Fields udmf.Fields
}

func (t *Thing) V() common.Vec2 {
	return common.Vec2{t.X, t.Y}
}

// IsNavMarker reports whether the thing is one of the navmesh marker types.
func (t *Thing) IsNavMarker() bool {
	return t.Type >= ThingNavMinType && t.Type <= ThingNavMaxType
}

func (t *Thing) HasTag(tag int) bool {
	return common.IndexOf(t.Tags, tag) >= 0
}
