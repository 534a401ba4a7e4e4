package triangulate

import (
	"math"
	"sort"
)

// Ear clipping over a flat coordinate list with optional holes. Hole rings
// follow the outer ring; holeIndices holds the vertex index each hole starts at.

type node struct {
	i          int
	x, y       float64
	prev, next *node
	steiner    bool
}

// Earcut returns vertex index triples. dim is the stride of data; only the first
// two coordinates are used.
func Earcut(data []float64, holeIndices []int, dim int) []int {
	if dim < 2 {
		dim = 2
	}
	hasHoles := len(holeIndices) > 0
	outerLen := len(data)
	if hasHoles {
		outerLen = holeIndices[0] * dim
	}
	outer := linkedList(data, 0, outerLen, dim, true)
	var triangles []int
	if outer == nil || outer.next == outer.prev {
		return triangles
	}
	if hasHoles {
		outer = eliminateHoles(data, holeIndices, outer, dim)
	}
	return earcutLinked(outer, triangles, dim, 0)
}

func linkedList(data []float64, start, end, dim int, clockwise bool) *node {
	var last *node
	if clockwise == (signedArea(data, start, end, dim) > 0) {
		for i := start; i < end; i += dim {
			last = insertNode(i, data[i], data[i+1], last)
		}
	} else {
		for i := end - dim; i >= start; i -= dim {
			last = insertNode(i, data[i], data[i+1], last)
		}
	}
	if last != nil && equals(last, last.next) {
		removeNode(last)
		last = last.next
	}
	return last
}

func filterPoints(start, end *node) *node {
	if start == nil {
		return start
	}
	if end == nil {
		end = start
	}
	p := start
	for {
		again := false
		if !p.steiner && (equals(p, p.next) || area(p.prev, p, p.next) == 0) {
			removeNode(p)
			p = p.prev
			end = p
			if p == p.next {
				break
			}
			again = true
		} else {
			p = p.next
		}
		if !again && p == end {
			break
		}
	}
	return end
}

func earcutLinked(ear *node, triangles []int, dim, pass int) []int {
	if ear == nil {
		return triangles
	}
	stop := ear
	for ear.prev != ear.next {
		prev, next := ear.prev, ear.next
		if isEar(ear) {
			triangles = append(triangles, prev.i/dim, ear.i/dim, next.i/dim)
			removeNode(ear)
			ear = next.next
			stop = next.next
			continue
		}
		ear = next
		if ear == stop {
			switch pass {
			case 0:
				triangles = earcutLinked(filterPoints(ear, nil), triangles, dim, 1)
			case 1:
				var cured *node
				cured, triangles = cureLocalIntersections(filterPoints(ear, nil), triangles, dim)
				triangles = earcutLinked(cured, triangles, dim, 2)
			case 2:
				triangles = splitEarcut(ear, triangles, dim)
			}
			return triangles
		}
	}
	return triangles
}

func isEar(ear *node) bool {
	a, b, c := ear.prev, ear, ear.next
	if area(a, b, c) >= 0 {
		return false
	}
	x0, y0 := min(a.x, b.x, c.x), min(a.y, b.y, c.y)
	x1, y1 := max(a.x, b.x, c.x), max(a.y, b.y, c.y)
	for p := c.next; p != a; p = p.next {
		if p.x >= x0 && p.x <= x1 && p.y >= y0 && p.y <= y1 &&
			pointInTriangle(a.x, a.y, b.x, b.y, c.x, c.y, p.x, p.y) &&
			area(p.prev, p, p.next) >= 0 {
			return false
		}
	}
	return true
}

func cureLocalIntersections(start *node, triangles []int, dim int) (*node, []int) {
	p := start
	for {
		a, b := p.prev, p.next.next
		if !equals(a, b) && intersects(a, p, p.next, b) && locallyInside(a, b) && locallyInside(b, a) {
			triangles = append(triangles, a.i/dim, p.i/dim, b.i/dim)
			removeNode(p)
			removeNode(p.next)
			p = b
			start = b
		}
		p = p.next
		if p == start {
			break
		}
	}
	return filterPoints(p, nil), triangles
}

func splitEarcut(start *node, triangles []int, dim int) []int {
	a := start
	for {
		for b := a.next.next; b != a.prev; b = b.next {
			if a.i != b.i && isValidDiagonal(a, b) {
				c := splitPolygon(a, b)
				a = filterPoints(a, a.next)
				c = filterPoints(c, c.next)
				triangles = earcutLinked(a, triangles, dim, 0)
				return earcutLinked(c, triangles, dim, 0)
			}
		}
		a = a.next
		if a == start {
			return triangles
		}
	}
}

func eliminateHoles(data []float64, holeIndices []int, outer *node, dim int) *node {
	queue := make([]*node, 0, len(holeIndices))
	for i, h := range holeIndices {
		start := h * dim
		end := len(data)
		if i < len(holeIndices)-1 {
			end = holeIndices[i+1] * dim
		}
		list := linkedList(data, start, end, dim, false)
		if list == nil {
			continue
		}
		if list == list.next {
			list.steiner = true
		}
		queue = append(queue, getLeftmost(list))
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].x < queue[j].x })
	for _, h := range queue {
		outer = eliminateHole(h, outer)
	}
	return outer
}

func eliminateHole(hole, outer *node) *node {
	bridge := findHoleBridge(hole, outer)
	if bridge == nil {
		return outer
	}
	bridgeReverse := splitPolygon(bridge, hole)
	filterPoints(bridgeReverse, bridgeReverse.next)
	return filterPoints(bridge, bridge.next)
}

// findHoleBridge finds an outer vertex visible from the leftmost hole vertex.
func findHoleBridge(hole, outer *node) *node {
	p := outer
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *node
	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				m = p.next
				if p.x < p.next.x {
					m = p
				}
				if x == hx {
					return m
				}
			}
		}
		p = p.next
		if p == outer {
			break
		}
	}
	if m == nil {
		return nil
	}

	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)
	p = m
	for {
		ax, cx := qx, hx
		if hy < my {
			ax, cx = hx, qx
		}
		if hx >= p.x && p.x >= mx && hx != p.x && pointInTriangle(ax, hy, mx, my, cx, hy, p.x, p.y) {
			tan := math.Abs(hy-p.y) / (hx - p.x)
			if locallyInside(p, hole) &&
				(tan < tanMin || (tan == tanMin && (p.x > m.x || (p.x == m.x && sectorContainsSector(m, p))))) {
				m = p
				tanMin = tan
			}
		}
		p = p.next
		if p == stop {
			break
		}
	}
	return m
}

func sectorContainsSector(m, p *node) bool {
	return area(m.prev, m, p.prev) < 0 && area(p.next, m, m.next) < 0
}

func getLeftmost(start *node) *node {
	p, leftmost := start, start
	for {
		if p.x < leftmost.x || (p.x == leftmost.x && p.y < leftmost.y) {
			leftmost = p
		}
		p = p.next
		if p == start {
			return leftmost
		}
	}
}

func pointInTriangle(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (cx-px)*(ay-py) >= (ax-px)*(cy-py) &&
		(ax-px)*(by-py) >= (bx-px)*(ay-py) &&
		(bx-px)*(cy-py) >= (cx-px)*(by-py)
}

func isValidDiagonal(a, b *node) bool {
	return a.next.i != b.i && a.prev.i != b.i && !intersectsPolygon(a, b) &&
		(locallyInside(a, b) && locallyInside(b, a) && middleInside(a, b) &&
			(area(a.prev, a, b.prev) != 0 || area(a, b.prev, b) != 0) ||
			equals(a, b) && area(a.prev, a, a.next) > 0 && area(b.prev, b, b.next) > 0)
}

func area(p, q, r *node) float64 {
	return (q.y-p.y)*(r.x-q.x) - (q.x-p.x)*(r.y-q.y)
}

func equals(p1, p2 *node) bool {
	return p1.x == p2.x && p1.y == p2.y
}

func intersects(p1, q1, p2, q2 *node) bool {
	o1 := sign(area(p1, q1, p2))
	o2 := sign(area(p1, q1, q2))
	o3 := sign(area(p2, q2, p1))
	o4 := sign(area(p2, q2, q1))
	if o1 != o2 && o3 != o4 {
		return true
	}
	return o1 == 0 && onSegment(p1, p2, q1) ||
		o2 == 0 && onSegment(p1, q2, q1) ||
		o3 == 0 && onSegment(p2, p1, q2) ||
		o4 == 0 && onSegment(p2, q1, q2)
}

func onSegment(p, q, r *node) bool {
	return q.x <= max(p.x, r.x) && q.x >= min(p.x, r.x) && q.y <= max(p.y, r.y) && q.y >= min(p.y, r.y)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func intersectsPolygon(a, b *node) bool {
	p := a
	for {
		if p.i != a.i && p.next.i != a.i && p.i != b.i && p.next.i != b.i && intersects(p, p.next, a, b) {
			return true
		}
		p = p.next
		if p == a {
			return false
		}
	}
}

func locallyInside(a, b *node) bool {
	if area(a.prev, a, a.next) < 0 {
		return area(a, b, a.next) >= 0 && area(a, a.prev, b) >= 0
	}
	return area(a, b, a.prev) < 0 || area(a, a.next, b) < 0
}

func middleInside(a, b *node) bool {
	p := a
	inside := false
	px, py := (a.x+b.x)/2, (a.y+b.y)/2
	for {
		if (p.y > py) != (p.next.y > py) && p.next.y != p.y &&
			px < (p.next.x-p.x)*(py-p.y)/(p.next.y-p.y)+p.x {
			inside = !inside
		}
		p = p.next
		if p == a {
			return inside
		}
	}
}

// splitPolygon links a and b with a bridge, duplicating both. It returns the
// copy of b on the second ring.
func splitPolygon(a, b *node) *node {
	a2 := &node{i: a.i, x: a.x, y: a.y}
	b2 := &node{i: b.i, x: b.x, y: b.y}
	an, bp := a.next, b.prev

	a.next = b
	b.prev = a
	a2.next = an
	an.prev = a2
	b2.next = a2
	a2.prev = b2
	bp.next = b2
	b2.prev = bp
	return b2
}

func insertNode(i int, x, y float64, last *node) *node {
	p := &node{i: i, x: x, y: y}
	if last == nil {
		p.prev = p
		p.next = p
	} else {
		p.next = last.next
		p.prev = last
		last.next.prev = p
		last.next = p
	}
	return p
}

func removeNode(p *node) {
	p.next.prev = p.prev
	p.prev.next = p.next
}

func signedArea(data []float64, start, end, dim int) float64 {
	var sum float64
	for i, j := start, end-dim; i < end; i += dim {
		sum += (data[j] - data[i]) * (data[i+1] + data[j+1])
		j = i
	}
	return sum
}

// Deviation is the relative difference between the polygon area and the area of
// its triangulation. Zero means a perfect result.
func Deviation(data []float64, holeIndices []int, dim int, triangles []int) float64 {
	outerLen := len(data)
	if len(holeIndices) > 0 {
		outerLen = holeIndices[0] * dim
	}
	polygonArea := math.Abs(signedArea(data, 0, outerLen, dim))
	for i, h := range holeIndices {
		start := h * dim
		end := len(data)
		if i < len(holeIndices)-1 {
			end = holeIndices[i+1] * dim
		}
		polygonArea -= math.Abs(signedArea(data, start, end, dim))
	}
	var trianglesArea float64
	for i := 0; i+2 < len(triangles); i += 3 {
		a, b, c := triangles[i]*dim, triangles[i+1]*dim, triangles[i+2]*dim
		trianglesArea += math.Abs((data[a]-data[c])*(data[b+1]-data[a+1]) -
			(data[a]-data[b])*(data[c+1]-data[a+1]))
	}
	if polygonArea == 0 && trianglesArea == 0 {
		return 0
	}
	return math.Abs((trianglesArea - polygonArea) / polygonArea)
}
