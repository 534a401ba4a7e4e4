package common

import "math"

// Box2 is an axis aligned 2D box. The zero value is not empty; use NewBox2.
type Box2 struct {
	Min, Max Vec2
}

func NewBox2() Box2 {
	return Box2{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

func (b Box2) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1]
}

func (b *Box2) ExpandByPoint(p Vec2) {
	b.Min[0] = min(b.Min[0], p[0])
	b.Min[1] = min(b.Min[1], p[1])
	b.Max[0] = max(b.Max[0], p[0])
	b.Max[1] = max(b.Max[1], p[1])
}

func (b Box2) Size() Vec2 {
	if b.IsEmpty() {
		return Vec2{}
	}
	return b.Max.Sub(b.Min)
}

func (b Box2) Center() Vec2 {
	if b.IsEmpty() {
		return Vec2{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box2) Area() float64 {
	s := b.Size()
	return s[0] * s[1]
}

// ContainsBox is inclusive on every edge.
func (b Box2) ContainsBox(o Box2) bool {
	return b.Min[0] <= o.Min[0] && o.Max[0] <= b.Max[0] &&
		b.Min[1] <= o.Min[1] && o.Max[1] <= b.Max[1]
}

func Box2FromCenterAndSize(center, size Vec2) Box2 {
	half := size.Mul(0.5)
	return Box2{Min: center.Sub(half), Max: center.Add(half)}
}

// Box3 is an axis aligned 3D box. The zero value is not empty; use NewBox3.
type Box3 struct {
	Min, Max Vec3
}

func NewBox3() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

func Box3FromCenterAndSize(center, size Vec3) Box3 {
	half := size.Mul(0.5)
	return Box3{Min: center.Sub(half), Max: center.Add(half)}
}

func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b *Box3) ExpandByPoint(p Vec3) {
	Vmin(&b.Min, p)
	Vmax(&b.Max, p)
}

func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b Box3) Center() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box3) ContainsPoint(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// IntersectsTriangle is the separating axis test between the box and triangle abc.
func (b Box3) IntersectsTriangle(a, bb, c Vec3) bool {
	if b.IsEmpty() {
		return false
	}
	center := b.Center()
	extents := b.Max.Sub(center)

	v0 := a.Sub(center)
	v1 := bb.Sub(center)
	v2 := c.Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	axes := []Vec3{
		{0, -f0[2], f0[1]}, {0, -f1[2], f1[1]}, {0, -f2[2], f2[1]},
		{f0[2], 0, -f0[0]}, {f1[2], 0, -f1[0]}, {f2[2], 0, -f2[0]},
		{-f0[1], f0[0], 0}, {-f1[1], f1[0], 0}, {-f2[1], f2[0], 0},
	}
	if !satForAxes(axes, v0, v1, v2, extents) {
		return false
	}
	axes = []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if !satForAxes(axes, v0, v1, v2, extents) {
		return false
	}
	normal := f0.Cross(f1)
	return satForAxes([]Vec3{normal}, v0, v1, v2, extents)
}

func satForAxes(axes []Vec3, v0, v1, v2, extents Vec3) bool {
	for _, axis := range axes {
		r := extents[0]*math.Abs(axis[0]) + extents[1]*math.Abs(axis[1]) + extents[2]*math.Abs(axis[2])
		p0 := v0.Dot(axis)
		p1 := v1.Dot(axis)
		p2 := v2.Dot(axis)
		if max(-max(p0, p1, p2), min(p0, p1, p2)) > r {
			return false
		}
	}
	return true
}
