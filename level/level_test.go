package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/level"
	"github.com/gorustyt/udmfnav/level/leveltest"
	"github.com/gorustyt/udmfnav/udmf"
)

func TestSquareSector(t *testing.T) {
	lvl := leveltest.Square().Level(t)
	require.Len(t, lvl.Sectors, 1)
	s := lvl.Sector(0)
	assert.True(t, s.IsFree)
	assert.Empty(t, s.Neighbors)
	assert.Len(t, s.Linedefs, 4)
	assert.Len(t, s.Vertices, 4)
	assert.Len(t, s.Sidedefs, 4)
	assert.False(t, s.SlopedFloor)
	assert.False(t, s.TerrainFloor)
	assert.Equal(t, 128.0, s.Bounds.Size()[0])

	for i := range lvl.Linedefs {
		l := lvl.LineDef(i)
		assert.False(t, l.IsFree)
		assert.Equal(t, 128.0, l.Length)
		assert.Equal(t, -1, l.Back.Sector)
		assert.Equal(t, [5]int{}, l.Args)
	}
}

func TestAdjacentSectors(t *testing.T) {
	lvl := leveltest.Adjacent().Level(t)
	a, b := lvl.Sector(0), lvl.Sector(1)
	assert.Equal(t, []int{1}, a.Neighbors)
	assert.Equal(t, []int{0}, b.Neighbors)
	assert.False(t, a.IsFree)
	assert.False(t, b.IsFree)

	shared := lvl.LineDef(1)
	assert.False(t, shared.IsFree)
	assert.True(t, shared.TwoSided)
	assert.Contains(t, a.Linedefs, 1)
	assert.Contains(t, b.Linedefs, 1)
	assert.Equal(t, 0, shared.OtherSector(1))
	assert.Equal(t, 1, shared.OtherSector(0))
	assert.Equal(t, -1, shared.OtherSector(5))
}

func TestNeighborSymmetry(t *testing.T) {
	for _, m := range []*leveltest.Map{leveltest.Square(), leveltest.Hole(), leveltest.Adjacent()} {
		lvl := m.Level(t)
		for i := range lvl.Sectors {
			for _, n := range lvl.Sector(i).Neighbors {
				assert.Contains(t, lvl.Sector(n).Neighbors, i)
			}
		}
	}
}

func TestFreeLinedef(t *testing.T) {
	m := leveltest.Square()
	v0 := m.Vertex(32, 32)
	v1 := m.Vertex(96, 96)
	m.Line(v0, v1, m.Side(0), m.Side(0))
	lvl := m.Level(t)

	for i := range lvl.Linedefs {
		l := lvl.LineDef(i)
		want := l.Front.Sector >= 0 && l.Back.Sector >= 0 && l.Front.Sector == l.Back.Sector
		assert.Equal(t, want, l.IsFree, "linedef %d", i)
	}
	assert.True(t, lvl.LineDef(4).IsFree)
	assert.True(t, lvl.Sector(0).IsFree, "a free line does not make a neighbour")
}

func TestTags(t *testing.T) {
	m := leveltest.Square()
	m.Sector(0, 64, "id = 7", `moreids = "8 9 7"`)
	m.Thing(16, 16, 16006, "id = 10", "arg0 = 20")
	m.Thing(32, 32, 16007, `moreids = "20"`)
	m.Thing(48, 48, 1)
	lvl := m.Level(t)

	s := lvl.Sector(1)
	assert.Equal(t, []int{7, 8, 9}, s.Tags)
	for _, tag := range s.Tags {
		assert.Equal(t, []int{1}, lvl.TaggedSectors(tag))
	}
	assert.Nil(t, lvl.Sector(0).Tags)

	assert.Equal(t, []int{10}, lvl.Thing(0).Tags)
	assert.Equal(t, [5]int{20, 0, 0, 0, 0}, lvl.Thing(0).Args)
	assert.Equal(t, []int{1}, lvl.TaggedThings(20))
	assert.Nil(t, lvl.Thing(2).Tags)
	assert.True(t, lvl.Thing(0).IsNavMarker())
	assert.False(t, lvl.Thing(2).IsNavMarker())
	assert.False(t, lvl.Tags.Has(udmf.KindSector, 10))
}

func TestNegativeTag(t *testing.T) {
	m := leveltest.Square()
	m.Sector(0, 64, "id = -3")
	m.Sector(0, 64, "id = 0")
	lvl := m.Level(t)
	assert.Equal(t, []int{-3}, lvl.Sector(1).Tags)
	assert.Equal(t, []int{1}, lvl.TaggedSectors(-3))
	assert.Empty(t, lvl.Sector(2).Tags)
}

func TestTagBuilderDedup(t *testing.T) {
	b := level.NewTagBuilder()
	b.Register(udmf.KindThing, 3, 1)
	b.Register(udmf.KindThing, 3, 1)
	b.Register(udmf.KindThing, 3, 2)
	r := b.Build()
	assert.Equal(t, []int{1, 2}, r.Lookup(udmf.KindThing, 3))
	assert.Empty(t, r.Lookup(udmf.KindSector, 3))
	assert.Equal(t, 1, r.Len())
}

func Test3DFloorModel(t *testing.T) {
	m := leveltest.Square()
	m.Sector(0, 128, "id = 5")
	model := m.Sector(32, 48)
	m.Loop(model, leveltest.Rect(1024, 1024, 1088, 1088)...)
	m.Line(0, 2, m.Side(model), -1, "special = 160", "arg0 = 5")
	lvl := m.Level(t)

	line := lvl.LineDef(len(lvl.Linedefs) - 1)
	assert.True(t, line.IsModel)
	assert.Equal(t, []int{line.Index}, lvl.ModelLines)
	assert.Equal(t, []int{model}, lvl.ModelSectors)
	assert.True(t, lvl.Sector(model).IsModel)

	tagged := lvl.Sector(1)
	assert.True(t, tagged.HasFloors3D)
	assert.Equal(t, []int{model}, tagged.ModelSectors)
	assert.Equal(t, []int{line.Index}, tagged.ModelLines)
}

func Test3DFloorUnknownTag(t *testing.T) {
	m := leveltest.Square()
	m.Line(0, 2, m.Side(0), -1, "special = 160", "arg0 = 99")
	doc, err := udmf.Parse(m.String())
	require.NoError(t, err)
	_, err = level.New(doc, nil)
	assert.ErrorIs(t, err, level.ErrUnknownTag)
}

func TestIndexOutOfRange(t *testing.T) {
	for name, build := range map[string]func(m *leveltest.Map){
		"sidedef sector": func(m *leveltest.Map) { m.Side(9) },
		"linedef side":   func(m *leveltest.Map) { m.Line(0, 1, 42, -1) },
		"linedef vertex": func(m *leveltest.Map) { m.Line(0, 77, 0, -1) },
	} {
		m := leveltest.Square()
		build(m)
		doc, err := udmf.Parse(m.String())
		require.NoError(t, err)
		_, err = level.New(doc, nil)
		assert.ErrorIs(t, err, level.ErrIndexOutOfRange, name)
	}
}

func TestSlopeAndTerrain(t *testing.T) {
	m := &leveltest.Map{}
	sloped := m.Sector(0, 128, "floorplane_a = 0", "floorplane_b = 0.5", "floorplane_c = 1", "floorplane_d = 0")
	m.Loop(sloped, leveltest.Rect(0, 0, 64, 64)...)
	terrain := m.Sector(0, 128)
	v0 := m.Vertex(200, 0, "zfloor = 16")
	v1 := m.Vertex(264, 0)
	v2 := m.Vertex(232, 64, "zceiling = 100")
	m.Line(v0, v1, m.Side(terrain), -1)
	m.Line(v1, v2, m.Side(terrain), -1)
	m.Line(v2, v0, m.Side(terrain), -1)
	lvl := m.Level(t)

	s := lvl.Sector(sloped)
	assert.True(t, s.SlopedFloor)
	assert.False(t, s.SlopedCeiling)
	assert.InDelta(t, -32.0, s.VertexZ(lvl.Vertex(2), true), 1e-9)

	tr := lvl.Sector(terrain)
	assert.True(t, tr.TerrainFloor)
	assert.True(t, tr.TerrainCeiling)
	assert.Equal(t, 16.0, tr.VertexZ(lvl.Vertex(v0), true))
	assert.Equal(t, 0.0, tr.VertexZ(lvl.Vertex(v1), true))
	assert.Equal(t, 100.0, tr.VertexZ(lvl.Vertex(v2), false))
	assert.Equal(t, 128.0, tr.VertexZ(lvl.Vertex(v0), false))

	assert.InDelta(t, -32.0, lvl.SurfaceZ(sloped, true, 0, 64), 1e-9)
	assert.Equal(t, 128.0, lvl.SurfaceZ(sloped, false, 0, 64))
	assert.InDelta(t, 8.0, lvl.SurfaceZ(terrain, true, 232, 0), 1e-9)
	assert.InDelta(t, 4.0, lvl.SurfaceZ(terrain, true, 232, 32), 1e-9)
}

func TestLeftmostVertex(t *testing.T) {
	lvl := leveltest.Adjacent().Level(t)
	// Line 0 runs left to right, line 3 from (0,128) down to (0,0).
	assert.Equal(t, 0, lvl.LeftmostVertex(0))
	assert.Equal(t, 1, lvl.RightmostVertex(0))
	assert.Equal(t, 5, lvl.LeftmostVertex(3))
	assert.Equal(t, 0, lvl.RightmostVertex(3))
}

func TestNoCast(t *testing.T) {
	m := &leveltest.Map{}
	s := m.Sector(0, 128, "user_nocast = true")
	m.Loop(s, leveltest.Rect(0, 0, 64, 64)...)
	lvl := m.Level(t)
	assert.True(t, lvl.Sector(0).NoCast)
}
