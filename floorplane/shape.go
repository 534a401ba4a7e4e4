package floorplane

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/eapache/queue.v1"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/level"
)

const (
	maxWalkSteps    = 20000
	maxGroupingRuns = 10000
)

// Shape is one closed ring of a sector boundary. Lines[i] is entered at
// Vertices[i] going round the ring in order.
type Shape struct {
	ID       int
	Sector   int
	Lines    []int
	Vertices []int
	Bounds   common.Box2

	Parent   *Shape
	Children []*Shape
	IsRoot   bool
	IsHole   bool
}

func (s *Shape) Area() float64 {
	return s.Bounds.Area()
}

// Contains is the bounding box test used for hole classification.
func (s *Shape) Contains(o *Shape) bool {
	return s.Bounds.ContainsBox(o.Bounds)
}

func (s *Shape) Points(lvl *level.Level) []common.Vec2 {
	pts := make([]common.Vec2, len(s.Vertices))
	for i, v := range s.Vertices {
		pts[i] = lvl.Vertices[v].V()
	}
	return pts
}

// ContainsPoint is the even-odd test against the ring, ignoring children.
func (s *Shape) ContainsPoint(lvl *level.Level, p common.Vec2) bool {
	return common.PointInPolygon2D(s.Points(lvl), p)
}

// Holes returns the children classified as holes.
func (s *Shape) Holes() []*Shape {
	var holes []*Shape
	for _, c := range s.Children {
		if c.IsHole {
			holes = append(holes, c)
		}
	}
	return holes
}

func (s *Shape) addChild(c *Shape) {
	c.Parent = s
	for _, e := range s.Children {
		if e == c {
			return
		}
	}
	s.Children = append(s.Children, c)
}

func (s *Shape) removeChild(c *Shape) {
	for i, e := range s.Children {
		if e == c {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
			return
		}
	}
}

// descendsFrom reports whether anc is s or one of its ancestors.
func (s *Shape) descendsFrom(anc *Shape) bool {
	for p := s; p != nil; p = p.Parent {
		if p == anc {
			return true
		}
	}
	return false
}

// walker extracts the rings of one sector.
type walker struct {
	lvl    *level.Level
	sector *level.Sector
	all    []int
	remain []int
}

// ExtractShapes walks the non-free linedefs of a sector into closed rings.
func ExtractShapes(lvl *level.Level, sector int) ([]*Shape, error) {
	w := &walker{lvl: lvl, sector: lvl.Sector(sector)}
	for _, li := range w.sector.Linedefs {
		if !lvl.Linedefs[li].IsFree {
			w.all = append(w.all, li)
		}
	}
	w.remain = append([]int(nil), w.all...)
	return w.walk()
}

func (w *walker) northmost() int {
	best, line := math.Inf(1), -1
	for _, li := range w.remain {
		ld := &w.lvl.Linedefs[li]
		y := math.Min(w.lvl.Vertices[ld.V1].Y, w.lvl.Vertices[ld.V2].Y)
		if y < best {
			best, line = y, li
		}
	}
	return line
}

func (w *walker) drop(line int) {
	if i := common.IndexOf(w.remain, line); i >= 0 {
		w.remain = append(w.remain[:i], w.remain[i+1:]...)
	}
}

// samePair reports whether a and b separate the same two sectors, in either
// order. A missing side counts as a sector of its own.
func (w *walker) samePair(a, b int) bool {
	sa, sb := w.lvl.Linedefs[a].Sectors(), w.lvl.Linedefs[b].Sectors()
	return sa == sb || (sa[0] == sb[1] && sa[1] == sb[0])
}

// joins reports whether li leaves v towards another vertex of the sector.
func (w *walker) joins(li, cur, v int) bool {
	ld := &w.lvl.Linedefs[li]
	return li != cur && ld.HasVertex(v) && w.sector.HasVertex(ld.OtherVertex(v))
}

// next picks the line that continues the ring from v after cur. Lines
// between the same pair of sectors as cur come first, the ring's start line
// included.
func (w *walker) next(cur, v int, ring []int) int {
	for _, li := range w.remain {
		if w.joins(li, cur, v) && w.samePair(cur, li) {
			return li
		}
	}
	if w.joins(ring[0], cur, v) && w.samePair(cur, ring[0]) {
		return ring[0]
	}
	// Fall back to any boundary line of the sector, the start line included.
	for _, li := range w.all {
		if !w.joins(li, cur, v) {
			continue
		}
		if li != ring[0] && common.IndexOf(ring, li) >= 0 {
			continue
		}
		return li
	}
	return -1
}

func (w *walker) walk() ([]*Shape, error) {
	var shapes []*Shape
	if len(w.remain) == 0 {
		return nil, nil
	}
	start := w.northmost()
	w.drop(start)
	ld := &w.lvl.Linedefs[start]
	lines, verts := []int{start}, []int{ld.V2}
	cur, v := start, ld.V1

	for step := 0; ; step++ {
		if step > maxWalkSteps {
			return nil, fmt.Errorf("%w: sector %d walking lines %v", ErrRunaway, w.sector.Index, lines)
		}
		child := w.next(cur, v, lines)
		if child < 0 {
			return nil, fmt.Errorf("%w: sector %d at vertex %d after lines %v", ErrOpenLoop, w.sector.Index, v, lines)
		}
		w.drop(child)
		if child != lines[0] {
			lines = append(lines, child)
			verts = append(verts, v)
			cur, v = child, w.lvl.Linedefs[child].OtherVertex(v)
			continue
		}

		shapes = append(shapes, w.newShape(len(shapes), lines, verts))
		if len(w.remain) == 0 {
			return shapes, nil
		}
		// The restart line stays in the remaining set until its ring closes.
		start = w.northmost()
		ld = &w.lvl.Linedefs[start]
		lines, verts = []int{start}, []int{ld.V2}
		cur, v = start, ld.V1
	}
}

func (w *walker) newShape(id int, lines, verts []int) *Shape {
	first := &w.lvl.Linedefs[lines[0]]
	if w.lvl.Vertices[first.V1].X > w.lvl.Vertices[first.V2].X {
		lines = reversed(lines)
		// Reversed, each vertex would be where its line is left, so rotate by one.
		n := len(verts)
		rv := make([]int, n)
		for i := range verts {
			rv[i] = verts[(n-i)%n]
		}
		verts = rv
	}
	s := &Shape{
		ID:       id,
		Sector:   w.sector.Index,
		Lines:    lines,
		Vertices: verts,
		Bounds:   common.NewBox2(),
	}
	for _, vi := range verts {
		s.Bounds.ExpandByPoint(w.lvl.Vertices[vi].V())
	}
	return s
}

func reversed(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Classify builds the containment hierarchy over shapes and returns the roots.
// Containment is by bounding box. A shape directly under a root is a hole; a
// shape nested deeper is promoted to a root of its own.
func Classify(shapes []*Shape) ([]*Shape, error) {
	if len(shapes) == 0 {
		return nil, nil
	}
	sorted := append([]*Shape(nil), shapes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Area() < sorted[j].Area() })

	pending := queue.New()
	for _, s := range sorted[1:] {
		pending.Add(s)
	}
	claimed := make(map[*Shape]bool, len(sorted))
	cur := sorted[0]
	for runs := 0; ; runs++ {
		if runs > maxGroupingRuns {
			return nil, fmt.Errorf("%w: classifying %d shapes", ErrRunaway, len(sorted))
		}
		var parent *Shape
		for _, cand := range sorted {
			if cand == cur || !cand.Contains(cur) || cand.descendsFrom(cur) {
				continue
			}
			parent = cand
			break
		}
		if parent != nil {
			parent.addChild(cur)
			claimed[parent] = true
			cur = parent
			continue
		}
		cur.IsRoot = true
		cur = nil
		for pending.Length() > 0 {
			s := pending.Remove().(*Shape)
			if !claimed[s] {
				cur = s
				break
			}
		}
		if cur == nil {
			break
		}
	}

	var roots []*Shape
	for _, s := range sorted {
		switch {
		case s.Parent == nil:
			s.IsRoot = true
		case s.Parent.IsRoot && s.Parent.Parent == nil:
			s.IsHole = true
			s.IsRoot = false
		default:
			s.Parent.removeChild(s)
			s.Parent = nil
			s.IsRoot = true
		}
	}
	for _, s := range sorted {
		if s.IsRoot {
			roots = append(roots, s)
		}
	}
	return roots, nil
}
