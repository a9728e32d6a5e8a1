package vbo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// genTexCoord derives a texture coordinate from the position and normal of a
// vertex.
//
// Hemisphere maps the normal like a sphere map:
//
//	m = 2*sqrt(nx² + ny² + (nz+1)²), s = nx/m + 0.5, t = ny/m + 0.5
//
// Hedgehog maps the position direction to longitude and latitude:
//
//	s = atan2(py, px)/2π + 0.5, t = asin(pz/|p|)/π + 0.5
func genTexCoord(mode TexGenMode, pos mgl32.Vec4, nrm mgl32.Vec3) (mgl32.Vec4, bool) {
	switch mode {
	case TexGenHemisphere:
		m := 2 * math.Sqrt(float64(nrm[0]*nrm[0]+nrm[1]*nrm[1]+(nrm[2]+1)*(nrm[2]+1)))
		if m == 0 {
			return mgl32.Vec4{0.5, 0.5, 0, 1}, true
		}
		return mgl32.Vec4{float32(float64(nrm[0])/m + 0.5), float32(float64(nrm[1])/m + 0.5), 0, 1}, true
	case TexGenHedgehog:
		p := pos.Vec3()
		l := p.Len()
		if l == 0 {
			return mgl32.Vec4{0.5, 0.5, 0, 1}, true
		}
		s := math.Atan2(float64(p[1]), float64(p[0]))/(2*math.Pi) + 0.5
		t := math.Asin(float64(p[2]/l))/math.Pi + 0.5
		return mgl32.Vec4{float32(s), float32(t), 0, 1}, true
	}
	return mgl32.Vec4{}, false
}
