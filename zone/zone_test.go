package zone

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/common/message"
	"github.com/gorustyt/udmfnav/level"
	"github.com/gorustyt/udmfnav/navmesh"
)

func square(ref int, x, z float64) navmesh.Polygon {
	return navmesh.Polygon{Ref: ref, Vertices: []common.Vec3{
		{x, 0, z}, {x + 1, 0, z}, {x + 1, 0, z + 1}, {x, 0, z + 1},
	}}
}

func marker(typ int, tag, arg0 int, x, h, z float64) *navmesh.Marker {
	return &navmesh.Marker{
		Thing:    &level.Thing{Type: typ, Tags: []int{tag}, Args: [5]int{arg0}},
		Position: common.Vec3{x, h, z},
	}
}

func buildMesh(t *testing.T, markers ...*navmesh.Marker) *navmesh.Mesh {
	soup := navmesh.Soup{square(0, 1, 1), square(1, 2, 1), square(2, 10, 10)}
	m, err := navmesh.NewBuilder(nil).Build(soup, markers)
	require.NoError(t, err)
	return m
}

func TestBuild(t *testing.T) {
	z := Build(buildMesh(t), nil)

	require.Len(t, z.Vertices, 30)
	assert.Equal(t, [3]int{64, -64, 0}, z.Vertex(0))
	assert.Equal(t, [3]int{128, -128, 0}, z.Vertex(2))

	require.Len(t, z.Nodes, 3)
	assert.Equal(t, 2, z.Groups)
	for i, n := range z.Nodes {
		assert.Equal(t, i, n.M)
	}
	a := z.Nodes[0]
	assert.Equal(t, [3]int{96, -96, 0}, a.C)
	assert.Equal(t, []int{0, 1, 2, 3}, a.V)
	assert.Equal(t, []int{1}, a.N)
	assert.Len(t, a.P, 1)
	assert.Equal(t, 0, a.G)
	assert.Equal(t, 1, z.Nodes[2].G)
	assert.Empty(t, z.Nodes[2].N)
	assert.NotNil(t, z.Nodes[2].N)

	assert.Equal(t, 256, z.Res)
	assert.Equal(t, -256, z.OriginX)
	assert.Equal(t, 256, z.OriginY)
	assert.Equal(t, (z.SizeX+1)*(z.SizeY+1), z.Length)
	assert.Equal(t, 6, z.SizeX)
	for _, n := range z.Nodes {
		assert.NotEmpty(t, n.B)
	}
	assert.Equal(t, z.Nodes[0].B, z.Nodes[1].B)
}

func TestBuildChainFields(t *testing.T) {
	z := Build(buildMesh(t,
		marker(level.ThingLeapSpot, 10, 20, 96, 0, 96),
		marker(16007, 20, 30, 300, 64, 300),
		marker(16008, 30, 0, 672, 0, 672),
	), nil)
	require.Len(t, z.Nodes, 6)
	assert.Equal(t, 1, z.Groups)

	var leap *Node
	for i := range z.Nodes {
		if z.Nodes[i].F == navmesh.FlagLeap {
			leap = &z.Nodes[i]
		}
	}
	require.NotNil(t, leap)
	assert.Equal(t, 10, leap.H)
	assert.Equal(t, [3]int{96, -96, 0}, leap.C)
	for _, n := range z.Nodes {
		for _, nb := range n.N {
			assert.Less(t, nb, len(z.Nodes))
		}
	}

	raw, err := json.Marshal(z)
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `"f":2,"h":10`)
	assert.Contains(t, s, `"res":256`)
	assert.Contains(t, s, `"groups":1`)
}

func TestPlainNodeOmitsFlags(t *testing.T) {
	raw, err := json.Marshal(Node{P: [][2]int{}, V: []int{}, N: []int{}, B: []int{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":[0,0,0],"p":[],"v":[],"n":[],"m":0,"g":0,"b":[]}`, string(raw))
}

func TestWireRoundTrip(t *testing.T) {
	z := Build(buildMesh(t,
		marker(level.ThingLeapSpot, 10, 20, 96, 0, 96),
		marker(16007, 20, 30, 300, 64, 300),
		marker(16008, 30, 0, 672, 0, 672),
	), nil)
	got, err := Decode(Encode(z))
	require.NoError(t, err)
	assert.Equal(t, z, got)

	_, err = Decode([]byte{0x0a, 0x05, 0x01})
	assert.ErrorIs(t, err, message.ErrBadWire)
}

func TestJSONRoundTrip(t *testing.T) {
	z := Build(buildMesh(t), nil)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, z))
	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, z, got)
}
