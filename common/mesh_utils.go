package common

import "math"

// Last time I checked the if version got compiled using cmov, which was a lot faster than module (with idiv).
func Prev[T IT](i, n T) T {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}
func Next[T IT](i, n T) T {
	if i+1 < n {
		return i + 1
	}
	return 0
}

// Area2 is twice the signed area of the triangle abc on the xy plane.
func Area2(a, b, c Vec2) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}

// Returns true iff c is strictly to the left of the directed
// line through a to b.
func Left(a, b, c Vec2) bool {
	return Area2(a, b, c) > 0
}

func LeftOn(a, b, c Vec2) bool {
	return Area2(a, b, c) >= 0
}

func Collinear(a, b, c Vec2) bool {
	return Area2(a, b, c) == 0
}

// Exclusive or: true iff exactly one argument is true.
func Xorb(x, y bool) bool {
	return x != y
}

// Returns true iff ab properly intersects cd: they share
// a point interior to both segments.  The properness of the
// intersection is ensured by using strict leftness.
func IntersectProp(a, b, c, d Vec2) bool {
	// Eliminate improper cases.
	if Collinear(a, b, c) || Collinear(a, b, d) ||
		Collinear(c, d, a) || Collinear(c, d, b) {
		return false
	}
	return Xorb(Left(a, b, c), Left(a, b, d)) && Xorb(Left(c, d, a), Left(c, d, b))
}

// Returns T iff (a,b,c) are collinear and point c lies
// on the closed segement ab.
func Between(a, b, c Vec2) bool {
	if !Collinear(a, b, c) {
		return false
	}
	// If ab not vertical, check betweenness on x; else on y.
	if a[0] != b[0] {
		return ((a[0] <= c[0]) && (c[0] <= b[0])) || ((a[0] >= c[0]) && (c[0] >= b[0]))
	}
	return ((a[1] <= c[1]) && (c[1] <= b[1])) || ((a[1] >= c[1]) && (c[1] >= b[1]))
}

// Returns true iff segments ab and cd intersect, properly or improperly.
func Intersect(a, b, c, d Vec2) bool {
	if IntersectProp(a, b, c, d) {
		return true
	}
	return Between(a, b, c) || Between(a, b, d) ||
		Between(c, d, a) || Between(c, d, b)
}

// PolygonArea2D is the signed shoelace area of a closed ring.
func PolygonArea2D(pts []Vec2) float64 {
	var s float64
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		s += pts[j][0]*pts[i][1] - pts[i][0]*pts[j][1]
	}
	return s / 2
}

// PolygonCentroid2D returns the area weighted centroid of a ring. Degenerate rings fall back
// to the vertex average.
func PolygonCentroid2D(pts []Vec2) Vec2 {
	if len(pts) == 0 {
		return Vec2{}
	}
	var cx, cy, a float64
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		f := pts[j][0]*pts[i][1] - pts[i][0]*pts[j][1]
		cx += (pts[j][0] + pts[i][0]) * f
		cy += (pts[j][1] + pts[i][1]) * f
		a += f
	}
	if math.Abs(a) < 1e-12 {
		var avg Vec2
		for _, p := range pts {
			avg = avg.Add(p)
		}
		return avg.Mul(1 / float64(len(pts)))
	}
	a *= 3
	return Vec2{cx / a, cy / a}
}

// PointInPolygon2D is the even-odd crossing test.
func PointInPolygon2D(poly []Vec2, pt Vec2) bool {
	c := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if ((pi[1] <= pt[1] && pt[1] < pj[1]) || (pj[1] <= pt[1] && pt[1] < pi[1])) &&
			pt[0] < (pj[0]-pi[0])*(pt[1]-pi[1])/(pj[1]-pi[1])+pi[0] {
			c = !c
		}
	}
	return c
}
