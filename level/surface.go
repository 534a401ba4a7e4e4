package level

import "github.com/gorustyt/udmfnav/common"

// SurfaceZ is the floor (or ceiling) height of a sector at an arbitrary point.
// Sloped sectors use their plane; terrain sectors use the plane through their
// three vertex heights; everything else is flat.
func (l *Level) SurfaceZ(sector int, floor bool, x, y float64) float64 {
	s := &l.Sectors[sector]
	sloped, terrain := s.SlopedFloor, s.TerrainFloor
	if !floor {
		sloped, terrain = s.SlopedCeiling, s.TerrainCeiling
	}
	switch {
	case sloped:
		if floor {
			return s.FloorPlane.Z(x, y)
		}
		return s.CeilingPlane.Z(x, y)
	case terrain && len(s.Vertices) == 3:
		var p [3]common.Vec3
		for i, vi := range s.Vertices {
			v := &l.Vertices[vi]
			p[i] = common.Vec3{v.X, v.Y, s.TerrainZ(v, floor)}
		}
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		if n[2] != 0 {
			return p[0][2] - (n[0]*(x-p[0][0])+n[1]*(y-p[0][1]))/n[2]
		}
	}
	if floor {
		return s.HeightFloor
	}
	return s.HeightCeiling
}
