package navmesh

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gorustyt/udmfnav/common"
)

// Polygon is one voxelizer output polygon in voxelizer units.
type Polygon struct {
	Ref      int
	Vertices []common.Vec3
}

type Soup []Polygon

// SortByRef orders the soup by polygon reference, keeping the input order on ties.
func (s Soup) SortByRef() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Ref < s[j].Ref })
}

type jsonVertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type jsonPolygon struct {
	Ref      int          `json:"ref"`
	Vertices []jsonVertex `json:"vertices"`
}

// ReadSoupJSON reads [{"ref": n, "vertices": [{"x":..,"y":..,"z":..}, ...]}, ...].
func ReadSoupJSON(r io.Reader) (Soup, error) {
	var raw []jsonPolygon
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSoup, err)
	}
	soup := make(Soup, 0, len(raw))
	for _, p := range raw {
		poly := Polygon{Ref: p.Ref}
		for _, v := range p.Vertices {
			poly.Vertices = append(poly.Vertices, common.Vec3{v.X, v.Y, v.Z})
		}
		soup = append(soup, poly)
	}
	return soup, nil
}

// WriteSoupJSON writes the format read by ReadSoupJSON.
func WriteSoupJSON(w io.Writer, soup Soup) error {
	raw := make([]jsonPolygon, len(soup))
	for i, p := range soup {
		raw[i].Ref = p.Ref
		raw[i].Vertices = make([]jsonVertex, len(p.Vertices))
		for k, v := range p.Vertices {
			raw[i].Vertices[k] = jsonVertex{v[0], v[1], v[2]}
		}
	}
	return json.NewEncoder(w).Encode(raw)
}

// objLoader reads Wavefront OBJ where every face is one polygon.
type objLoader struct {
	verts []common.Vec3
	soup  Soup
	line  int
}

// ReadSoupOBJ reads each OBJ face as a polygon. Negative face indices are
// relative to the vertices read so far; texture and normal indices are ignored.
func ReadSoupOBJ(r io.Reader) (Soup, error) {
	l := &objLoader{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l.line++
		row := strings.TrimSpace(sc.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		if err := l.parseRow(strings.Fields(row)); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadSoup, l.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return l.soup, nil
}

func (l *objLoader) parseRow(ss []string) error {
	switch ss[0] {
	case "v":
		return l.parseVertex(ss[1:])
	case "f":
		return l.parseFace(ss[1:])
	}
	return nil
}

func (l *objLoader) parseVertex(ss []string) error {
	if len(ss) < 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(ss))
	}
	var v common.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(ss[i], 64)
		if err != nil {
			return err
		}
		v[i] = f
	}
	l.verts = append(l.verts, v)
	return nil
}

func (l *objLoader) parseFace(ss []string) error {
	poly := Polygon{Ref: len(l.soup)}
	for _, s := range ss {
		vi, err := strconv.Atoi(strings.Split(s, "/")[0])
		if err != nil {
			return err
		}
		if vi < 0 {
			vi += len(l.verts)
		} else {
			vi--
		}
		if vi < 0 || vi >= len(l.verts) {
			return fmt.Errorf("face index %s out of range", s)
		}
		poly.Vertices = append(poly.Vertices, l.verts[vi])
	}
	if len(poly.Vertices) >= 3 {
		l.soup = append(l.soup, poly)
	}
	return nil
}
