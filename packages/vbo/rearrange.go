package vbo

import "github.com/go-gl/mathgl/mgl32"

var (
	baryTriangle = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	baryLine     = [2]mgl32.Vec3{{1, 0, 1}, {0, 1, 1}}
	baryPoint    = mgl32.Vec3{1, 1, 1}
)

// barycentric returns the wireframe coordinate of logical vertex i of a
// batch. Quads use the corner in x and y, and 0.25 or 0.75 in z so the
// shared diagonal never reaches an edge.
func barycentric(mode PrimitiveMode, i int) mgl32.Vec3 {
	switch mode {
	case POINTS:
		return baryPoint
	case LINES, LINE_STRIP, LINE_LOOP:
		return baryLine[i%2]
	case TRIANGLE_FAN:
		if i == 0 {
			return baryTriangle[0]
		}
		return baryTriangle[1+(i-1)%2]
	case QUADS:
		return quadCorner((i%4+1)/2%2, (i%4)/2)
	case QUAD_STRIP:
		return quadCorner(i%2, (i/2)%2)
	}
	return baryTriangle[i%3]
}

func quadCorner(x, y int) mgl32.Vec3 {
	z := float32(0.25)
	if x != y {
		z = 0.75
	}
	return mgl32.Vec3{float32(x), float32(y), z}
}

// quadStripper rewrites quads into one triangle strip as their fourth vertex
// arrives. The first quad is stored as v1 v2 v0 v3. Every later quad is
// prefixed by the previous last vertex and a copy of its own v1, so the
// stored size runs 4, 10, 16, ... and each quad starts on an even index.
type quadStripper struct {
	pos int
}

func (q *quadStripper) reset() {
	q.pos = 0
}

// push is called after a vertex was appended to s. It returns an error when
// the seam vertices do not fit, in which case the whole quad was dropped.
func (q *quadStripper) push(s *attribStore) error {
	q.pos++
	if q.pos < 4 {
		return nil
	}
	q.pos = 0
	base := s.size - 4
	v0, v1, v2, v3 := s.at(base), s.at(base+1), s.at(base+2), s.at(base+3)
	if base == 0 {
		s.set(0, &v1)
		s.set(1, &v2)
		s.set(2, &v0)
		s.set(3, &v3)
		return nil
	}
	if err := s.ensure(2); err != nil {
		s.truncate(base)
		return err
	}
	last := s.at(base - 1)
	s.set(base, &last)
	s.set(base+1, &v1)
	s.set(base+2, &v1)
	s.set(base+3, &v2)
	s.append(&v0)
	s.append(&v3)
	return nil
}

// pending is the number of vertices of an unfinished quad.
func (q *quadStripper) pending() int {
	return q.pos
}
