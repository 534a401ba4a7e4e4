// Package leveltest writes small UDMF maps for tests.
package leveltest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/level"
	"github.com/gorustyt/udmfnav/udmf"
)

type Map struct {
	vertices []string
	sectors  []string
	sidedefs []string
	linedefs []string
	things   []string
}

func block(name string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString("\n{\n")
	for _, f := range fields {
		sb.WriteString(f)
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}

func (m *Map) Vertex(x, y float64, extra ...string) int {
	fields := append([]string{"x = " + num(x), "y = " + num(y)}, extra...)
	m.vertices = append(m.vertices, block("vertex", fields))
	return len(m.vertices) - 1
}

func (m *Map) Sector(floor, ceiling float64, extra ...string) int {
	fields := append([]string{
		"heightfloor = " + num(floor),
		"heightceiling = " + num(ceiling),
		`texturefloor = "FLAT1"`,
		`textureceiling = "FLAT1"`,
	}, extra...)
	m.sectors = append(m.sectors, block("sector", fields))
	return len(m.sectors) - 1
}

func (m *Map) Side(sector int) int {
	m.sidedefs = append(m.sidedefs, block("sidedef", []string{"sector = " + fmt.Sprint(sector), `texturemiddle = "STARTAN2"`}))
	return len(m.sidedefs) - 1
}

// Line adds a linedef between two vertices. front and back are sidedef indices, -1 for none.
func (m *Map) Line(v1, v2, front, back int, extra ...string) int {
	fields := []string{"v1 = " + fmt.Sprint(v1), "v2 = " + fmt.Sprint(v2)}
	if front >= 0 {
		fields = append(fields, "sidefront = "+fmt.Sprint(front))
	}
	if back >= 0 {
		fields = append(fields, "sideback = "+fmt.Sprint(back), "twosided = true")
	}
	m.linedefs = append(m.linedefs, block("linedef", append(fields, extra...)))
	return len(m.linedefs) - 1
}

func (m *Map) Thing(x, y float64, typ int, extra ...string) int {
	fields := append([]string{"x = " + num(x), "y = " + num(y), "type = " + fmt.Sprint(typ)}, extra...)
	m.things = append(m.things, block("thing", fields))
	return len(m.things) - 1
}

// Loop adds a closed ring of vertices and one sided lines facing sector.
func (m *Map) Loop(sector int, pts ...[2]float64) (verts []int, lines []int) {
	for _, p := range pts {
		verts = append(verts, m.Vertex(p[0], p[1]))
	}
	for i := range verts {
		lines = append(lines, m.Line(verts[i], verts[(i+1)%len(verts)], m.Side(sector), -1))
	}
	return verts, lines
}

// InnerLoop adds a ring of two sided lines with inner on the front and outer on the back.
func (m *Map) InnerLoop(inner, outer int, pts ...[2]float64) (verts []int, lines []int) {
	for _, p := range pts {
		verts = append(verts, m.Vertex(p[0], p[1]))
	}
	for i := range verts {
		lines = append(lines, m.Line(verts[i], verts[(i+1)%len(verts)], m.Side(inner), m.Side(outer)))
	}
	return verts, lines
}

// ModelLoop is Loop with a Sector_Set3dFloor special on its first line, making
// sector a 3D floor model for the sectors tagged tag.
func (m *Map) ModelLoop(sector, tag int, pts ...[2]float64) (verts []int, lines []int) {
	verts, lines = m.Loop(sector, pts...)
	i := lines[0]
	m.linedefs[i] = strings.TrimSuffix(m.linedefs[i], "}\n") +
		fmt.Sprintf("special = %d;\narg0 = %d;\n}\n", level.Special160, tag)
	return verts, lines
}

// TagSector gives an existing sector the id tag.
func (m *Map) TagSector(sector, tag int) {
	m.sectors[sector] = strings.TrimSuffix(m.sectors[sector], "}\n") + fmt.Sprintf("id = %d;\n}\n", tag)
}

// Rect returns the corners of an axis aligned rectangle.
func Rect(x0, y0, x1, y1 float64) [][2]float64 {
	return [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteString("namespace = \"zdoom\";\n\n")
	for _, list := range [][]string{m.things, m.vertices, m.linedefs, m.sidedefs, m.sectors} {
		for _, b := range list {
			sb.WriteString(b)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Level parses and builds the map, failing the test on error.
func (m *Map) Level(t testing.TB) *level.Level {
	t.Helper()
	doc, err := udmf.Parse(m.String())
	require.NoError(t, err)
	lvl, err := level.New(doc, nil)
	require.NoError(t, err)
	return lvl
}

// Square is a free 128x128 room at the origin with floor 0.
func Square() *Map {
	m := &Map{}
	s := m.Sector(0, 128)
	m.Loop(s, Rect(0, 0, 128, 128)...)
	return m
}

// Hole is a 256x256 room around a 128x128 inner sector.
func Hole() *Map {
	m := &Map{}
	outer := m.Sector(0, 128)
	inner := m.Sector(16, 128)
	m.Loop(outer, Rect(0, 0, 256, 256)...)
	m.InnerLoop(inner, outer, Rect(64, 64, 192, 192)...)
	return m
}

// Adjacent is two 128x128 rooms sharing the line x = 128.
func Adjacent() *Map {
	m := &Map{}
	a := m.Sector(0, 128)
	b := m.Sector(8, 128)
	v := []int{
		m.Vertex(0, 0), m.Vertex(128, 0), m.Vertex(256, 0),
		m.Vertex(256, 128), m.Vertex(128, 128), m.Vertex(0, 128),
	}
	m.Line(v[0], v[1], m.Side(a), -1)
	m.Line(v[1], v[4], m.Side(b), m.Side(a))
	m.Line(v[4], v[5], m.Side(a), -1)
	m.Line(v[5], v[0], m.Side(a), -1)
	m.Line(v[1], v[2], m.Side(b), -1)
	m.Line(v[2], v[3], m.Side(b), -1)
	m.Line(v[3], v[4], m.Side(b), -1)
	return m
}
