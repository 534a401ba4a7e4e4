package blockmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gorustyt/udmfnav/common"
)

func box(minX, minY, maxX, maxY float64) common.Box2 {
	return common.Box2{Min: common.Vec2{minX, minY}, Max: common.Vec2{maxX, maxY}}
}

func TestSnapGrid(t *testing.T) {
	tests := []struct {
		name string
		in   common.Box2
		want common.Box2
	}{
		{"small", box(10, 10, 100, 100), box(-512, -512, 512, 512)},
		{"odd size", box(0, 0, 300, 300), box(-768, -768, 768, 768)},
		{"odd center", box(300, 0, 600, 100), box(-256, -512, 1280, 512)},
		{"negative", box(-700, -100, -600, 0), box(-1024, -512, 0, 512)},
		{"empty", common.NewBox2(), box(-512, -512, 512, 512)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapGrid(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SnapGrid(got), "snapping is idempotent")
		})
	}
}

func TestGridLayout(t *testing.T) {
	g := New(box(10, 10, 100, 100), nil)
	assert.Equal(t, [2]int{4, 4}, g.Size())
	assert.Equal(t, 25, g.Length())
	assert.Equal(t, common.Vec2{-512, 512}, g.Origin())

	// First cell hangs off the top left corner, the next one is to its right.
	assert.Equal(t, common.Vec3{-512, 256, -CellDepth / 2}, g.Cells[0].Min)
	assert.Equal(t, common.Vec3{-256, 512, CellDepth / 2}, g.Cells[0].Max)
	assert.Equal(t, -256.0, g.Cells[1].Min[0])
	// Row two starts one cell lower.
	assert.Equal(t, 256.0, g.Cells[5].Max[1])

	assert.Equal(t, 0, g.Cell(common.Vec2{-500, 500}))
	assert.Equal(t, 5+2, g.Cell(common.Vec2{10, 10}))
	assert.Equal(t, -1, g.Cell(common.Vec2{-600, 0}))

	same := New(g.Box, nil)
	assert.Equal(t, g.Cells, same.Cells)
}

func TestAddPolygonSingleCell(t *testing.T) {
	g := New(box(10, 10, 100, 100), nil)
	tri := []common.Vec2{{10, 10}, {100, 10}, {50, 100}}
	cells := g.AddPolygon(3, tri)
	require.Len(t, cells, 1)
	assert.Equal(t, g.Cell(tri[0]), cells[0])
	assert.Equal(t, []int{3}, g.Occupants[cells[0]])
}

func TestAddPolygonSpansCells(t *testing.T) {
	g := New(box(10, 10, 100, 100), nil)
	quad := []common.Vec2{{-100, -100}, {100, -100}, {100, 100}, {-100, 100}}
	cells := g.AddPolygon(0, quad)
	assert.Len(t, cells, 4)
	for i := 1; i < len(cells); i++ {
		assert.Less(t, cells[i-1], cells[i])
	}
}

func TestAddPointPolygon(t *testing.T) {
	g := New(box(10, 10, 100, 100), nil)
	p := common.Vec2{40, 40}
	cells := g.AddPolygon(9, []common.Vec2{p, p, p})
	assert.Equal(t, []int{g.Cell(p)}, cells)
}

func TestAddPolygonOutside(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := New(box(10, 10, 100, 100), zap.New(core))
	cells := g.AddPolygon(1, []common.Vec2{{5000, 5000}, {5100, 5000}, {5000, 5100}})
	assert.Empty(t, cells)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "polygon occupies no grid cell", logs.All()[0].Message)
}
