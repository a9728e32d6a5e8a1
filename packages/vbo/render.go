package vbo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var clipPlaneNames = func() (n [MaxClipPlanes]string) {
	for i := range n {
		n[i] = fmt.Sprintf("clipPlanes[%d]", i)
	}
	return
}()

// location returns the cached location of a context-set uniform.
func (c *Context) location(p Program, name string) int32 {
	m, ok := c.locs[p]
	if !ok {
		m = make(map[string]int32)
		c.locs[p] = m
	}
	loc, ok := m[name]
	if !ok {
		loc = c.dev.UniformLocation(p, name)
		m[name] = loc
	}
	return loc
}

func (c *Context) uniform(p Program, name string, v UniformValue) {
	if loc := c.location(p, name); loc >= 0 {
		c.dev.SetUniform(loc, v)
	}
}

// Render draws the buffer. Compiled buffers are shrunk to fit first.
func (b *Buffer) Render() {
	if !b.alive() {
		return
	}
	if b.collecting {
		b.ctx.fail(ErrRenderWhileOpen)
		return
	}
	b.render()
}

func (b *Buffer) render() {
	c := b.ctx
	if !b.opts.Immediate {
		b.store.shrinkToFit()
	}
	if b.opts.Hooks.PreRender != nil {
		b.opts.Hooks.PreRender(b)
	}
	mv := b.modelView()
	if b.store.size > 0 {
		mvp := c.Projection().Mul4(mv)
		if c.state.Culling && b.store.size > c.cfg.CullThreshold && b.culled(mvp) {
			Logger().Debug("vbo: culled", "size", b.store.size)
		} else {
			b.draw(mv, mvp)
		}
	}
	c.castRay(b, mv)
	c.exportBuffer(b, mv)
	if b.opts.Hooks.PostRender != nil {
		b.opts.Hooks.PostRender(b)
	}
}

// culled tests the bounding sphere against the near plane, extracted from
// mvp so it lives in the buffer's own space.
func (b *Buffer) culled(mvp mgl32.Mat4) bool {
	center, radius := b.BoundingSphere()
	plane := mvp.Row(3).Add(mvp.Row(2))
	n := plane.Vec3()
	l := n.Len()
	if l == 0 {
		return false
	}
	d := (n.Dot(center) + plane[3]) / l
	return d < -radius
}

// channels lists the channels carrying data for this buffer.
func (b *Buffer) channels() []Channel {
	chs := []Channel{ChannelPosition, ChannelBarycentric}
	if b.hasColor {
		chs = append(chs, ChannelColor)
	}
	if b.hasNormal {
		chs = append(chs, ChannelNormal)
	}
	if b.hasTexCoord {
		chs = append(chs, ChannelTexCoord)
	}
	for k, used := range b.store.attrUsed {
		if used {
			chs = append(chs, ChannelAttribute0+Channel(k))
		}
	}
	return chs
}

func (b *Buffer) stockMask() int {
	var mask int
	if b.hasColor {
		mask |= stockColor
	}
	if b.ctx.state.Light.Enabled && b.hasNormal {
		mask |= stockLighting
	}
	if t := b.textures[0]; t.IsValid() && b.hasTexCoord {
		mask |= stockTexturing
		if t.Kind == Texture3D {
			mask |= stockTexture3D
		}
	}
	return mask
}

func (b *Buffer) draw(mv, mvp mgl32.Mat4) {
	c, dev := b.ctx, b.ctx.dev
	fresh := false
	if b.va == 0 {
		b.va = dev.NewVertexArray()
		fresh = true
	}
	dev.BindVertexArray(b.va)
	chs := b.channels()
	if b.store.modified || fresh {
		for _, ch := range chs {
			dev.Upload(b.va, ch, b.store.channel(ch))
		}
	}

	prev := dev.CurrentProgram()
	prog, custom := b.program, b.program != 0
	if !custom {
		prog = c.stock[b.stockMask()]
	}
	dev.UseProgram(prog)

	c.uniform(prog, "mvp", UniformMat4(mvp))
	c.uniform(prog, "mv", UniformMat4(mv))
	c.uniform(prog, "normalMatrix", UniformMat3(mv.Mat3().Inv().Transpose()))
	c.uniform(prog, "texMatrix", UniformMat4(c.Matrix(TEXTURE)))
	if custom {
		b.uploadUniforms(prog)
	} else {
		b.stockUniforms(prog)
	}
	for unit, t := range b.textures {
		if t.IsValid() {
			dev.BindTexture(unit, t)
		}
	}
	for _, ch := range chs {
		dev.EnableAttribute(b.va, ch)
	}
	dev.SetBlend(c.state.Blend)
	dev.Draw(b.drawMode, 0, b.store.size)
	Logger().Debug("vbo: draw", "mode", b.drawMode, "count", b.store.size, "program", prog)

	for _, ch := range chs {
		dev.DisableAttribute(ch)
	}
	for unit, t := range b.textures {
		if t.IsValid() {
			dev.BindTexture(unit, Texture{Kind: t.Kind})
		}
	}
	dev.BindVertexArray(0)
	dev.UseProgram(prev)
	b.store.modified = false
}

func boolInt(v bool) UniformInt {
	if v {
		return 1
	}
	return 0
}

func (b *Buffer) stockUniforms(p Program) {
	c := b.ctx
	st := &c.state
	c.uniform(p, "colorScale", UniformVec4(b.colorScale))
	if st.Light.Enabled {
		c.uniform(p, "lightDir", UniformVec3(st.Light.Direction))
		c.uniform(p, "lightAmbient", UniformVec4(st.Light.Ambient))
		c.uniform(p, "lightDiffuse", UniformVec4(st.Light.Diffuse))
	}
	c.uniform(p, "tex", UniformInt(0))
	c.uniform(p, "fogMode", UniformInt(st.Fog.Mode))
	if st.Fog.Mode != FogNone {
		c.uniform(p, "fogColor", UniformVec4(st.Fog.Color))
		c.uniform(p, "fogParams", UniformVec3{st.Fog.Start, st.Fog.End, st.Fog.Density})
	}
	c.uniform(p, "clipMask", UniformInt(st.ClipMask))
	for i, plane := range st.ClipPlanes {
		if st.ClipMask&(1<<i) != 0 {
			c.uniform(p, clipPlaneNames[i], UniformVec4(plane))
		}
	}
	c.uniform(p, "alphaFunc", UniformInt(st.AlphaFunc))
	c.uniform(p, "alphaRef", UniformFloat(st.AlphaRef))
	c.uniform(p, "wireframe", boolInt(st.Wireframe.Enabled))
	if st.Wireframe.Enabled {
		c.uniform(p, "wireColor", UniformVec4(st.Wireframe.Color))
		c.uniform(p, "wireWidth", UniformFloat(st.Wireframe.Width))
	}
	c.uniform(p, "interlace", UniformInt(st.Interlace))
}
