package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ikemen-engine/glvbo/packages/glrender"
	"github.com/ikemen-engine/glvbo/packages/vbo"
)

const (
	scr_width  = 640
	scr_height = 480
)

// for avg. FPS calculations
var sys_gameFPS = float64(0.0)
var sys_prevTimestamp = float64(0.0)
var sys_absTickCountF = float64(0.0)

func init() {
	runtime.LockOSThread()
}

func updateFPS() {
	currentTime := glfw.GetTime()
	deltaTime := currentTime - sys_prevTimestamp

	if deltaTime >= 1 {
		sys_gameFPS = sys_absTickCountF / deltaTime
		sys_absTickCountF = 0
		sys_prevTimestamp = currentTime
	}

	sys_absTickCountF++
}

func initGLFW(cfg WindowConfig) *glfw.Window {
	if err := glfw.Init(); err != nil {
		log.Fatalln("failed to initialize glfw:", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		log.Fatalln("failed to create window:", err)
	}
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	}
	return window
}

func main() {
	configPath := flag.String("config", "glvbo.yaml", "YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalln("failed to load config:", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.slogLevel()}))
	slog.SetDefault(logger)
	vbo.SetLogger(logger)

	window := initGLFW(cfg.Window)
	defer glfw.Terminate()

	gfx, err := glrender.New(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		log.Fatalln(err)
	}
	ctx := vbo.NewContext(gfx, cfg.VBO)
	ctx.SetShaderLoader(glrender.DirLoader(cfg.ShaderDir))

	s := newScene(ctx, gfx, cfg)
	window.SetKeyCallback(s.onKey)
	window.SetMouseButtonCallback(s.onMouse)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gfx.Resize(w, h)
		s.resize(w, h)
	})
	fw, fh := window.GetFramebufferSize()
	gfx.Resize(fw, fh)
	s.resize(fw, fh)
	sys_prevTimestamp = glfw.GetTime()

	for !window.ShouldClose() {
		glfw.PollEvents()
		gfx.BeginFrame(true)
		updateFPS()
		s.draw(glfw.GetTime())
		gfx.EndFrame()
		window.SwapBuffers()
		window.SetTitle(fmt.Sprintf("%s | FPS: %.1f | Draw Calls: %d", cfg.Window.Title, sys_gameFPS, gfx.DrawCalls()))
		if err := ctx.LastError(); err != nil {
			slog.Warn("frame", "err", err)
		}
	}
	s.close()
	if err := ctx.Close(); err != nil {
		slog.Error("context", "err", err)
	}
}
