package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/floorplane"
	"github.com/gorustyt/udmfnav/level/leveltest"
)

func quadTris() []floorplane.Triangle {
	a, b := common.Vec3{0, 0, 0}, common.Vec3{64, 0, 0}
	c, d := common.Vec3{64, 0, 64}, common.Vec3{0, 0, 64}
	return []floorplane.Triangle{{a, b, c}, {a, c, d}}
}

func TestMergeVertices(t *testing.T) {
	m := NewMesh("q", MaterialSector)
	m.AddTriangles(quadTris())
	require.Len(t, m.Positions, 6)

	m.MergeVertices(MergeTolerance)
	assert.Len(t, m.Positions, 4)
	assert.Equal(t, 2, m.TriangleCount())

	// A sliver collapses under a loose tolerance.
	s := NewMesh("s", MaterialSector)
	s.AddTriangles([]floorplane.Triangle{{{0, 0, 0}, {0.0001, 0, 0}, {0, 0, 0.0002}}})
	s.MergeVertices(MergeToleranceLoose)
	assert.True(t, s.Empty())
}

func TestAddFloorFacesUp(t *testing.T) {
	m := NewMesh("f", MaterialSector)
	m.AddFloor(quadTris())
	for i := 0; i < len(m.Indices); i += 3 {
		p0, p1, p2 := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		assert.Greater(t, n[1], 0.0)
	}
	// Map y becomes scene -z.
	assert.Equal(t, -64.0, m.Positions[2][2])
}

func TestObjectTree(t *testing.T) {
	root := NewObject("root")
	root.Scale = 0.5
	child := &Object{Name: "a", Position: common.Vec3{2, 4, 6}}
	root.Add(child.Add(&Object{Name: "b", Position: common.Vec3{2, 0, 0}}))

	assert.Same(t, child, root.Find("a"))
	assert.Nil(t, root.Find("missing"))
	assert.Equal(t, []common.Vec3{{2, 2, 3}}, root.WorldPositions("b"))

	c := root.Clone()
	c.Children[0].Name = "z"
	assert.Equal(t, "a", child.Name)
}

func TestBuild(t *testing.T) {
	m := leveltest.Adjacent()
	m.Thing(64, 64, 16006, "height = 4")
	m.Thing(2000, 2000, 16007)
	lvl := m.Level(t)
	g, err := floorplane.NewGroup(lvl, nil)
	require.NoError(t, err)

	scenes := Build(g, nil)
	nav := scenes.Nav
	floors := nav.Find(NameFloors)
	require.NotNil(t, floors)
	// Four floor triangles and the walkable step between the rooms.
	assert.Equal(t, 6, floors.Mesh.TriangleCount())
	assert.Nil(t, nav.Find(NameSectors3D))

	walls := nav.Find(NameWallsPreview)
	require.NotNil(t, walls)
	require.Len(t, walls.Children, 1)
	assert.Equal(t, 12, walls.Children[0].Mesh.TriangleCount())

	things, pos := NavThings(scenes.Preview)
	require.Len(t, things, 1)
	assert.Equal(t, 16006, things[0].Type)
	assert.Equal(t, common.Vec3{64, 4, -64}, pos[0])
	assert.Equal(t, []common.Vec3{{1, 4.0 / 64, -1}}, nav.Root.WorldPositions(NameNavNode))

	solid := scenes.Preview.Find(NameWallsSolid)
	require.NotNil(t, solid)
	assert.Len(t, solid.Children, 6)

	var buf bytes.Buffer
	require.NoError(t, scenes.Preview.WriteJSON(&buf))
	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Len(t, back.Root.FindAll(NameNavNode), 1)
}

func TestWriteOBJ(t *testing.T) {
	root := NewObject("level")
	root.Scale = common.MapScale
	m := NewMesh(NameFloors, MaterialSector)
	m.AddFloor(quadTris())
	m.MergeVertices(MergeTolerance)
	root.Add(&Object{Name: NameFloors, Mesh: m}, NewObject(NameNavNodes))

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, New(root)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+4+2)
	assert.Equal(t, "o floors", lines[0])
	assert.Equal(t, "v 0 0 0", lines[1])
	assert.Contains(t, lines, "v 1 0 -1")
	assert.True(t, strings.HasPrefix(lines[5], "f "))
}
