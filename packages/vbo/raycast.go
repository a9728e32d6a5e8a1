package vbo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RayHit is the closest intersection found while a ray cast was armed.
type RayHit struct {
	Buffer *Buffer
	// Distance is measured from the ray origin in eye space.
	Distance float32
	// Point is the hit position in eye space.
	Point mgl32.Vec3
	// Triangle indexes Triangulate(b.DrawMode(), b.Size()).
	Triangle int
}

type rayCast struct {
	armed   bool
	origin  mgl32.Vec3
	dir     mgl32.Vec3
	minDist float32
	hit     RayHit
	found   bool
}

// BeginRayCast arms a ray given in eye space. Every buffer rendered until
// EndRayCast is tested and the closest hit at or beyond minDist is kept.
func (c *Context) BeginRayCast(origin, dir mgl32.Vec3, minDist float32) {
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	c.ray = rayCast{armed: true, origin: origin, dir: dir, minDist: minDist}
}

// EndRayCast disarms the ray and returns the closest hit, if any.
func (c *Context) EndRayCast() (RayHit, bool) {
	r := c.ray
	c.ray = rayCast{}
	return r.hit, r.found
}

func (c *Context) RayCasting() bool {
	return c.ray.armed
}

const rayEpsilon = 1e-7

// intersect is Möller-Trumbore. It returns the ray parameter of the hit.
func intersect(o, d, a, b, cc mgl32.Vec3) (float32, bool) {
	e1, e2 := b.Sub(a), cc.Sub(a)
	p := d.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(float64(det)) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := o.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := d.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	return e2.Dot(q) * inv, true
}

// castRay tests the triangles of b, in its own space, against the armed ray.
func (c *Context) castRay(b *Buffer, mv mgl32.Mat4) {
	if !c.ray.armed || b.store.size == 0 {
		return
	}
	inv := mv.Inv()
	o := inv.Mul4x1(c.ray.origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(c.ray.dir.Vec4(0)).Vec3()
	pos := b.store.channel(ChannelPosition)
	at := func(i int) mgl32.Vec3 {
		return mgl32.Vec3{pos[i*4], pos[i*4+1], pos[i*4+2]}
	}
	for ti, tri := range Triangulate(b.drawMode, b.store.size) {
		t, ok := intersect(o, d, at(tri[0]), at(tri[1]), at(tri[2]))
		if !ok || t < 0 {
			continue
		}
		local := o.Add(d.Mul(t))
		eye := mv.Mul4x1(local.Vec4(1)).Vec3()
		dist := eye.Sub(c.ray.origin).Len()
		if dist < c.ray.minDist || (c.ray.found && dist >= c.ray.hit.Distance) {
			continue
		}
		c.ray.hit = RayHit{Buffer: b, Distance: dist, Point: eye, Triangle: ti}
		c.ray.found = true
	}
}
