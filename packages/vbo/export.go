package vbo

import "github.com/go-gl/mathgl/mgl32"

// ExportedMesh is a world-space copy of one rendered buffer.
type ExportedMesh struct {
	// Mode is the primitive Positions are ordered for, so quads rearranged
	// into strips export as TRIANGLE_STRIP.
	Mode      PrimitiveMode
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	TexCoords []mgl32.Vec2
	// Triangles lists the non degenerate triangles. Point and line buffers
	// have none.
	Triangles [][3]int
}

// ExportFunc receives every mesh as it is captured.
type ExportFunc func(b *Buffer, m ExportedMesh)

type exportState struct {
	armed  bool
	fn     ExportFunc
	matrix mgl32.Mat4
	meshes []ExportedMesh
}

// BeginExport arms capture. Every buffer rendered until EndExport is copied
// with m times its modelview baked into the positions. fn may be nil.
func (c *Context) BeginExport(fn ExportFunc, m mgl32.Mat4) {
	c.export = exportState{armed: true, fn: fn, matrix: m}
}

// EndExport disarms capture and returns the meshes in render order.
func (c *Context) EndExport() []ExportedMesh {
	meshes := c.export.meshes
	c.export = exportState{}
	return meshes
}

func (c *Context) Exporting() bool {
	return c.export.armed
}

func (c *Context) exportBuffer(b *Buffer, mv mgl32.Mat4) {
	if !c.export.armed || b.store.size == 0 {
		return
	}
	m := b.Export(c.export.matrix.Mul4(mv))
	c.export.meshes = append(c.export.meshes, m)
	if c.export.fn != nil {
		c.export.fn(b, m)
	}
}

// Export copies the buffer with m applied to positions, its inverse-transpose
// to normals and the color scale to colors.
func (b *Buffer) Export(m mgl32.Mat4) ExportedMesh {
	s := b.store
	nm := m.Mat3().Inv().Transpose()
	out := ExportedMesh{
		Mode:      b.drawMode,
		Positions: make([]mgl32.Vec3, s.size),
		Colors:    make([]mgl32.Vec4, s.size),
	}
	if b.hasNormal {
		out.Normals = make([]mgl32.Vec3, s.size)
	}
	if b.hasTexCoord {
		out.TexCoords = make([]mgl32.Vec2, s.size)
	}
	for i := 0; i < s.size; i++ {
		v := s.at(i)
		p := m.Mul4x1(v.pos)
		if p[3] != 0 && p[3] != 1 {
			p = p.Mul(1 / p[3])
		}
		out.Positions[i] = p.Vec3()
		col := v.col
		if !b.hasColor {
			col = mgl32.Vec4{1, 1, 1, 1}
		}
		out.Colors[i] = mgl32.Vec4{
			col[0] * b.colorScale[0], col[1] * b.colorScale[1],
			col[2] * b.colorScale[2], col[3] * b.colorScale[3],
		}
		if out.Normals != nil {
			n := nm.Mul3x1(v.nrm)
			if n.Len() > 0 {
				n = n.Normalize()
			}
			out.Normals[i] = n
		}
		if out.TexCoords != nil {
			out.TexCoords[i] = v.tex.Vec2()
		}
	}
	for _, t := range Triangulate(b.drawMode, s.size) {
		a, bb, cc := out.Positions[t[0]], out.Positions[t[1]], out.Positions[t[2]]
		if bb.Sub(a).Cross(cc.Sub(a)).Len() == 0 {
			continue
		}
		out.Triangles = append(out.Triangles, t)
	}
	return out
}
