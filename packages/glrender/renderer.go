// Package glrender implements vbo.Device on OpenGL 3.3 core.
package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/ikemen-engine/glvbo/packages/vbo"
)

// GLState mirrors the GL state the renderer changes so redundant calls are
// skipped.
type GLState struct {
	blendEnabled  bool
	blendEquation uint32
	blendSrc      uint32
	blendDst      uint32
	depthTest     bool
	program       uint32
	vao           uint32
}

var _ vbo.Device = (*Renderer)(nil)

type Renderer struct {
	caps     vbo.Caps
	programs map[vbo.Program]*shaderProgram
	arrays   map[vbo.VertexArray]*vertexArray
	nextVA   vbo.VertexArray
	tasks    chan func()

	width, height int32
	nDrawcall     int
	drawcall      int
	GLState
}

// New loads the GL entry points of the current context and probes it.
func New(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r := &Renderer{
		programs: make(map[vbo.Program]*shaderProgram),
		arrays:   make(map[vbo.VertexArray]*vertexArray),
		tasks:    make(chan func(), 65536),
		width:    int32(width),
		height:   int32(height),
	}
	r.caps = probeCaps(
		gl.GoStr(gl.GetString(gl.VENDOR)),
		gl.GoStr(gl.GetString(gl.RENDERER)),
		gl.GoStr(gl.GetString(gl.VERSION)))
	var mask int32
	gl.GetIntegerv(gl.CONTEXT_PROFILE_MASK, &mask)
	vbo.Logger().Info("glrender: context",
		"version", r.caps.Version,
		"core", mask&gl.CONTEXT_CORE_PROFILE_BIT != 0,
		"glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		"renderer", r.caps.Renderer,
		"vendor", r.caps.Vendor)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	r.depthTest = true
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	return r, nil
}

// probeCaps always reports a core profile. The binding has no quad enums, so
// even a compatibility context must receive quads as triangle strips.
func probeCaps(vendor, renderer, version string) vbo.Caps {
	return vbo.Caps{Vendor: vendor, Renderer: renderer, Version: version, CoreProfile: true}
}

func (r *Renderer) Caps() vbo.Caps {
	return r.caps
}

// Resize sets the viewport used by BeginFrame and ReadPixels.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = int32(width), int32(height)
}

func (r *Renderer) BeginFrame(clearColor bool) {
	gl.Viewport(0, 0, r.width, r.height)
	if clearColor {
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	} else {
		gl.Clear(gl.DEPTH_BUFFER_BIT)
	}
}

func (r *Renderer) EndFrame() {
	r.drawcall = r.nDrawcall
	r.nDrawcall = 0
	r.RunTasks()
}

// DrawCalls is the number of draws issued during the last frame.
func (r *Renderer) DrawCalls() int {
	return r.drawcall
}

// RunTasks runs the GL work queued from other goroutines, such as texture
// deletion by finalizers.
func (r *Renderer) RunTasks() {
	for {
		select {
		case f := <-r.tasks:
			f()
		default:
			return
		}
	}
}

func (r *Renderer) SetDepthTest(depthTest bool) {
	if depthTest != r.depthTest {
		r.depthTest = depthTest
		if depthTest {
			gl.Enable(gl.DEPTH_TEST)
			gl.DepthFunc(gl.LEQUAL)
		} else {
			gl.Disable(gl.DEPTH_TEST)
		}
	}
}

type blendParams struct {
	eq, src, dst uint32
}

var blendLUT = map[vbo.BlendMode]blendParams{
	vbo.BlendAlpha:    {gl.FUNC_ADD, gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA},
	vbo.BlendAdditive: {gl.FUNC_ADD, gl.SRC_ALPHA, gl.ONE},
	vbo.BlendMultiply: {gl.FUNC_ADD, gl.DST_COLOR, gl.ZERO},
	vbo.BlendSubtract: {gl.FUNC_REVERSE_SUBTRACT, gl.SRC_ALPHA, gl.ONE},
}

func (r *Renderer) SetBlend(mode vbo.BlendMode) {
	p, ok := blendLUT[mode]
	if !ok {
		if r.blendEnabled {
			r.blendEnabled = false
			gl.Disable(gl.BLEND)
		}
		return
	}
	if !r.blendEnabled {
		r.blendEnabled = true
		gl.Enable(gl.BLEND)
	}
	r.SetBlending(p.eq, p.src, p.dst)
}

func (r *Renderer) SetBlending(eq, src, dst uint32) {
	if eq != r.blendEquation {
		r.blendEquation = eq
		gl.BlendEquation(eq)
	}
	if src != r.blendSrc || dst != r.blendDst {
		r.blendSrc = src
		r.blendDst = dst
		gl.BlendFunc(src, dst)
	}
}

var primitiveModeLUT = map[vbo.PrimitiveMode]uint32{
	vbo.POINTS:         gl.POINTS,
	vbo.LINES:          gl.LINES,
	vbo.LINE_LOOP:      gl.LINE_LOOP,
	vbo.LINE_STRIP:     gl.LINE_STRIP,
	vbo.TRIANGLES:      gl.TRIANGLES,
	vbo.TRIANGLE_STRIP: gl.TRIANGLE_STRIP,
	vbo.TRIANGLE_FAN:   gl.TRIANGLE_FAN,
}

// MapPrimitiveMode returns the GL enum of mode. Quads have none on a core
// context.
func MapPrimitiveMode(mode vbo.PrimitiveMode) (uint32, bool) {
	m, ok := primitiveModeLUT[mode]
	return m, ok
}

func (r *Renderer) Draw(mode vbo.PrimitiveMode, first, count int) {
	m, ok := MapPrimitiveMode(mode)
	if !ok {
		vbo.Logger().Warn("glrender: primitive not supported by core profile", "mode", mode)
		return
	}
	gl.DrawArrays(m, int32(first), int32(count))
	r.nDrawcall++
}
