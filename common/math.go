package common

import "math"

// / Returns the absolute value.
// / @param[in]		a	The value.
// / @return The absolute value of the specified value.
func Abs[T IT](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

// / Selects the minimum value of each element from the specified vectors.
// / @param[in,out]	mn	A vector.  (Will be updated with the result.) [(x, y, z)]
// / @param[in]		v	A vector. [(x, y, z)]
func Vmin(mn *Vec3, v Vec3) {
	mn[0] = min(mn[0], v[0])
	mn[1] = min(mn[1], v[1])
	mn[2] = min(mn[2], v[2])
}

// / Selects the maximum value of each element from the specified vectors.
// / @param[in,out]	mx	A vector.  (Will be updated with the result.) [(x, y, z)]
// / @param[in]		v	A vector. [(x, y, z)]
func Vmax(mx *Vec3, v Vec3) {
	mx[0] = max(mx[0], v[0])
	mx[1] = max(mx[1], v[1])
	mx[2] = max(mx[2], v[2])
}

// / Returns the square of the distance between two points.
// / @param[in]		v1	A point. [(x, y, z)]
// / @param[in]		v2	A point. [(x, y, z)]
// / @return The square of the distance between the two points.
func VdistSqr(v1, v2 Vec3) float64 {
	d := v2.Sub(v1)
	return d.Dot(d)
}

// / Returns the distance between two 2D points.
func Vdist2D(v1, v2 Vec2) float64 {
	return v2.Sub(v1).Len()
}

// Vfloor floors every component.
func Vfloor(v Vec3) Vec3 {
	return Vec3{math.Floor(v[0]), math.Floor(v[1]), math.Floor(v[2])}
}

// PlaneZ solves ax+by+cz+d=0 for z after normalizing the plane.
func PlaneZ(a, b, c, d, x, y float64) float64 {
	q := math.Sqrt(a*a + b*b + c*c)
	if q == 0 || c == 0 {
		return 0
	}
	nx, ny, nz := a/q, b/q, c/q
	p := d / q
	return (-p - (nx*x + ny*y)) / nz
}
