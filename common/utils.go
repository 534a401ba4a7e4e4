package common

import "github.com/go-gl/mathgl/mgl64"

type Vec3 = mgl64.Vec3
type Vec2 = mgl64.Vec2

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Map scale between UDMF map units and voxelizer units.
const (
	MapScale    = 1.0 / 64.0
	MapScaleInv = 64.0
)

// Flatten2 returns x,y pairs of the points laid out back to back.
func Flatten2(points []Vec2) []float64 {
	res := make([]float64, 0, len(points)*2)
	for _, p := range points {
		res = append(res, p[0], p[1])
	}
	return res
}

// IndexOf returns the position of v in s or -1.
func IndexOf[T comparable](s []T, v T) int {
	for i := range s {
		if s[i] == v {
			return i
		}
	}
	return -1
}

// AppendUnique appends v when it is not already present.
func AppendUnique[T comparable](s []T, v T) []T {
	if IndexOf(s, v) >= 0 {
		return s
	}
	return append(s, v)
}

