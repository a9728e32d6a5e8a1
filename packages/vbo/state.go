package vbo

import "github.com/go-gl/mathgl/mgl32"

const MaxClipPlanes = 6

type FogMode int

const (
	FogNone FogMode = iota
	FogLinear
	FogExp
	FogExp2
)

type AlphaFunc int

const (
	AlphaAlways AlphaFunc = iota
	AlphaLess
	AlphaLessEqual
	AlphaGreater
	AlphaGreaterEqual
	AlphaEqual
	AlphaNotEqual
	AlphaNever
)

type Interlace int

const (
	InterlaceNone Interlace = iota
	InterlaceEven
	InterlaceOdd
)

type TexGenMode int

const (
	TexGenNone TexGenMode = iota
	TexGenHemisphere
	TexGenHedgehog
)

type Fog struct {
	Mode       FogMode
	Color      mgl32.Vec4
	Start, End float32
	Density    float32
}

type Light struct {
	Enabled bool
	// Direction points towards the light, in eye space.
	Direction mgl32.Vec3
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
}

type Wireframe struct {
	Enabled bool
	Color   mgl32.Vec4
	Width   float32
}

// RenderState is the emulated fixed-function state shared by every buffer of
// a Context.
type RenderState struct {
	Blend      BlendMode
	ClipPlanes [MaxClipPlanes]mgl32.Vec4
	ClipMask   uint32
	Fog        Fog
	Light      Light
	AlphaFunc  AlphaFunc
	AlphaRef   float32
	Wireframe  Wireframe
	Interlace  Interlace
	TexGen     TexGenMode
	Culling    bool
}

func defaultRenderState() RenderState {
	return RenderState{
		Blend: BlendAlpha,
		Fog:   Fog{Color: mgl32.Vec4{0, 0, 0, 1}, End: 1, Density: 1},
		Light: Light{
			Direction: mgl32.Vec3{0, 0, 1},
			Ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
			Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		},
		Wireframe: Wireframe{Color: mgl32.Vec4{0, 0, 0, 1}, Width: 1},
	}
}

// State returns a copy of the current render state.
func (c *Context) State() RenderState {
	return c.state
}

func (c *Context) SetBlend(mode BlendMode) {
	c.state.Blend = mode
}

// SetClipPlane enables plane i. The plane is given in the current modelview
// space and stored in eye space.
func (c *Context) SetClipPlane(i int, plane mgl32.Vec4) {
	if i < 0 || i >= MaxClipPlanes {
		c.failf(ErrInvalidClipPlane, "%d", i)
		return
	}
	inv := c.ModelView().Inv()
	// A plane transforms by the inverse-transpose, applied as a row vector.
	c.state.ClipPlanes[i] = inv.Transpose().Mul4x1(plane)
	c.state.ClipMask |= 1 << i
}

func (c *Context) DisableClipPlane(i int) {
	if i < 0 || i >= MaxClipPlanes {
		c.failf(ErrInvalidClipPlane, "%d", i)
		return
	}
	c.state.ClipMask &^= 1 << i
}

func (c *Context) SetFog(f Fog) {
	c.state.Fog = f
}

// SetLight sets the directional light. Direction is taken in the current
// modelview space, like a legacy light position with w=0.
func (c *Context) SetLight(l Light) {
	d := c.NormalMatrix().Mul3x1(l.Direction)
	if d.Len() > 0 {
		d = d.Normalize()
	}
	l.Direction = d
	c.state.Light = l
}

func (c *Context) SetLighting(enabled bool) {
	c.state.Light.Enabled = enabled
}

func (c *Context) SetAlphaTest(fn AlphaFunc, ref float32) {
	c.state.AlphaFunc, c.state.AlphaRef = fn, ref
}

func (c *Context) SetWireframe(w Wireframe) {
	c.state.Wireframe = w
}

func (c *Context) SetInterlace(mode Interlace) {
	c.state.Interlace = mode
}

func (c *Context) SetTexGen(mode TexGenMode) {
	c.state.TexGen = mode
}

// SetCulling toggles near plane culling of large buffers.
func (c *Context) SetCulling(enabled bool) {
	c.state.Culling = enabled
}
