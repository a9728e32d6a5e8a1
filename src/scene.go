package main

import (
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ikemen-engine/glvbo/packages/glrender"
	"github.com/ikemen-engine/glvbo/packages/meshio"
	"github.com/ikemen-engine/glvbo/packages/vbo"
)

type scene struct {
	ctx *vbo.Context
	gfx *glrender.Renderer
	cfg Config

	tri     *vbo.Buffer
	cube    *vbo.Buffer
	grid    *vbo.Buffer
	fan     *vbo.Buffer
	checker *glrender.Texture

	width, height int
	wireframe     bool

	// requests queued by input callbacks, served at the next frame
	pick       bool
	pickX      float32
	pickY      float32
	export     bool
	screenshot bool
}

var cubeFaces = [6]struct {
	normal mgl32.Vec3
	color  mgl32.Vec4
	corner [4]mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec4{1, 0.3, 0.3, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec4{0.3, 1, 0.3, 1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec4{0.3, 0.3, 1, 1}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec4{1, 1, 0.3, 1}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec4{1, 0.3, 1, 1}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec4{0.3, 1, 1, 1}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
}

func newScene(ctx *vbo.Context, gfx *glrender.Renderer, cfg Config) *scene {
	s := &scene{ctx: ctx, gfx: gfx, cfg: cfg}
	s.tri = ctx.NewBuffer(vbo.BufferOptions{Immediate: true})

	s.cube = ctx.NewBuffer(vbo.BufferOptions{})
	s.cube.Begin(vbo.QUADS)
	for _, f := range cubeFaces {
		s.cube.Normal(f.normal[0], f.normal[1], f.normal[2])
		s.cube.Color(f.color[0], f.color[1], f.color[2], f.color[3])
		for _, p := range f.corner {
			s.cube.Vertex(p[0]*0.5, p[1]*0.5, p[2]*0.5)
		}
	}
	s.cube.End()

	// the grid is a backdrop, drawn first and never occluding
	s.grid = ctx.NewBuffer(vbo.BufferOptions{Hooks: vbo.Hooks{
		PreRender:  func(*vbo.Buffer) { gfx.SetDepthTest(false) },
		PostRender: func(*vbo.Buffer) { gfx.SetDepthTest(true) },
	}})
	s.grid.Begin(vbo.LINES)
	s.grid.Color(0.5, 0.5, 0.5, 1)
	for i := -10; i <= 10; i++ {
		f := float32(i)
		s.grid.Vertex(f, -1, -10)
		s.grid.Vertex(f, -1, 10)
		s.grid.Vertex(-10, -1, f)
		s.grid.Vertex(10, -1, f)
	}
	s.grid.End()

	s.checker = gfx.NewTexture2D(8, 8, checkerboard(8), false)
	s.fan = ctx.NewBuffer(vbo.BufferOptions{Hooks: vbo.Hooks{
		PreRender: func(b *vbo.Buffer) {
			// clip the disc above y = 0.5
			b.Context().SetClipPlane(0, mgl32.Vec4{0, -1, 0, 0.5})
		},
		PostRender: func(b *vbo.Buffer) {
			b.Context().DisableClipPlane(0)
		},
	}})
	s.fan.SetTexture(s.checker.Handle(), 0)
	s.fan.Begin(vbo.TRIANGLE_FAN)
	s.fan.TexCoord(0.5, 0.5)
	s.fan.Vertex(0, 0, 0)
	const segments = 24
	for i := 0; i <= segments; i++ {
		a := float64(i) / segments * 2 * math.Pi
		x, y := float32(math.Cos(a)), float32(math.Sin(a))
		s.fan.TexCoord(0.5+x*0.5, 0.5+y*0.5)
		s.fan.Vertex(x, y, 0)
	}
	s.fan.End()

	ctx.SetFog(vbo.Fog{Mode: vbo.FogLinear, Color: mgl32.Vec4{0.1, 0.1, 0.15, 1}, Start: 6, End: 20, Density: 1})
	ctx.SetCulling(true)
	return s
}

func checkerboard(n int) []byte {
	data := make([]byte, n*n*4)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := byte(60)
			if (x+y)%2 == 0 {
				v = 230
			}
			i := (y*n + x) * 4
			data[i], data[i+1], data[i+2], data[i+3] = v, v, v, 255
		}
	}
	return data
}

func (s *scene) resize(w, h int) {
	s.width, s.height = w, h
}

func (s *scene) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyW:
		s.wireframe = !s.wireframe
		s.ctx.SetWireframe(vbo.Wireframe{Enabled: s.wireframe, Color: mgl32.Vec4{0, 0, 0, 1}, Width: 1.5})
	case glfw.KeyE:
		s.export = true
	case glfw.KeyS:
		s.screenshot = true
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	}
}

func (s *scene) onMouse(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}
	x, y := w.GetCursorPos()
	ww, wh := w.GetSize()
	if ww == 0 || wh == 0 {
		return
	}
	s.pick = true
	s.pickX = float32(2*x/float64(ww) - 1)
	s.pickY = float32(1 - 2*y/float64(wh))
}

func (s *scene) draw(t float64) {
	ctx := s.ctx
	aspect := float32(1)
	if s.height > 0 {
		aspect = float32(s.width) / float32(s.height)
	}
	ctx.MatrixMode(vbo.PROJECTION)
	ctx.LoadIdentity()
	ctx.Perspective(45, aspect, 0.1, 100)
	ctx.MatrixMode(vbo.MODELVIEW)
	ctx.LoadIdentity()
	ctx.LookAt(mgl32.Vec3{0, 2, 6}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	view := ctx.ModelView()

	ctx.SetLight(vbo.Light{
		Enabled:   true,
		Direction: mgl32.Vec3{1, 2, 3},
		Ambient:   mgl32.Vec4{0.25, 0.25, 0.25, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
	})

	if s.pick {
		// unproject the cursor onto the near plane to get an eye space ray
		p := ctx.Projection().Inv().Mul4x1(mgl32.Vec4{s.pickX, s.pickY, -1, 1})
		ctx.BeginRayCast(mgl32.Vec3{}, p.Vec3().Mul(1/p.W()), 0)
	}
	if s.export {
		ctx.BeginExport(nil, view.Inv())
	}

	ctx.SetLighting(false)
	s.grid.Render()

	ctx.SetLighting(true)
	ctx.PushMatrix()
	ctx.Rotate(float32(t)*30, 0, 1, 0)
	ctx.Rotate(float32(t)*20, 1, 0, 0)
	s.cube.Render()
	ctx.PopMatrix()

	ctx.SetLighting(false)
	ctx.PushMatrix()
	ctx.Translate(-2.5, 0, 0)
	s.fan.Render()
	ctx.PopMatrix()

	ctx.PushMatrix()
	ctx.Translate(2.5, 0, 0)
	ctx.Rotate(float32(t)*90, 0, 0, 1)
	s.tri.Begin(vbo.TRIANGLES)
	s.tri.Color(1, 0, 0, 1)
	s.tri.Vertex(-0.8, -0.6, 0)
	s.tri.Color(0, 1, 0, 1)
	s.tri.Vertex(0.8, -0.6, 0)
	s.tri.Color(0, 0, 1, 1)
	s.tri.Vertex(0, 0.8, 0)
	s.tri.End()
	ctx.PopMatrix()

	if s.pick {
		s.pick = false
		if hit, ok := ctx.EndRayCast(); ok {
			slog.Info("pick", "buffer", hit.Buffer.String(), "distance", hit.Distance, "triangle", hit.Triangle)
		} else {
			slog.Info("pick", "buffer", "none")
		}
	}
	if s.export {
		s.export = false
		s.writeMeshes(ctx.EndExport())
	}
	if s.screenshot {
		s.screenshot = false
		if err := s.gfx.SavePNG(s.cfg.Screenshot); err != nil {
			slog.Error("screenshot", "err", err)
		} else {
			slog.Info("screenshot", "file", s.cfg.Screenshot)
		}
	}
}

func (s *scene) writeMeshes(meshes []vbo.ExportedMesh) {
	write := func(path string, fn func(f *os.File) error) {
		if path == "" {
			return
		}
		f, err := os.Create(path)
		if err != nil {
			slog.Error("export", "err", err)
			return
		}
		defer f.Close()
		if err := fn(f); err != nil {
			slog.Error("export", "file", path, "err", err)
			return
		}
		slog.Info("export", "file", path, "meshes", len(meshes))
	}
	write(s.cfg.ExportOBJ, func(f *os.File) error { return meshio.WriteOBJ(f, meshes) })
	write(s.cfg.ExportSTL, func(f *os.File) error { return meshio.WriteSTL(f, meshes) })
}

func (s *scene) close() {
	for _, b := range []*vbo.Buffer{s.tri, s.cube, s.grid, s.fan} {
		b.Destroy()
	}
	s.gfx.RunTasks()
}
