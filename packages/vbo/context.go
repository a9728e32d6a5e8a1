package vbo

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Stock program bank index bits.
const (
	stockColor = 1 << iota
	stockLighting
	stockTexturing
	stockTexture3D
	numStockPrograms
)

var stockDefines = [...]string{
	"#define HAS_COLOR\n",
	"#define HAS_LIGHTING\n",
	"#define HAS_TEXTURE\n",
	"#define HAS_TEXTURE_3D\n",
}

// Context holds the state legacy GL kept globally: matrix stacks, render
// state, the ray-cast and export hooks and the stock program bank. It is not
// safe for concurrent use and must only be used on the goroutine that owns
// the graphics context.
type Context struct {
	cfg    Config
	dev    Device
	loader ShaderLoader
	report report

	stacks         [numMatrixModes]*matrixStack
	matrixMode     MatrixMode
	manipulator    mgl32.Mat4
	hasManipulator bool

	// open counts buffers between Begin and End.
	open  int
	state RenderState

	ray    rayCast
	export exportState

	// refs counts live buffers. The caps probe and the stock bank exist
	// while it is positive.
	refs  int
	caps  Caps
	stock [numStockPrograms]Program
	locs  map[Program]map[string]int32
}

func NewContext(dev Device, cfg Config) *Context {
	cfg.normalize()
	c := &Context{
		cfg:         cfg,
		dev:         dev,
		matrixMode:  MODELVIEW,
		manipulator: mgl32.Ident4(),
		state:       defaultRenderState(),
		locs:        make(map[Program]map[string]int32),
	}
	for i := range c.stacks {
		c.stacks[i] = newMatrixStack()
	}
	return c
}

// SetShaderLoader sets the source of stock and named shaders. It must be set
// before the first buffer is created.
func (c *Context) SetShaderLoader(l ShaderLoader) {
	c.loader = l
}

func (c *Context) Config() Config {
	return c.cfg
}

// Caps returns the renderer probe result, valid while any buffer is alive.
func (c *Context) Caps() Caps {
	return c.caps
}

func (c *Context) quadsForbidden() bool {
	return c.cfg.EmulateQuads || c.caps.CoreProfile
}

func (c *Context) acquire() {
	c.refs++
	if c.refs > 1 {
		return
	}
	c.caps = c.dev.Caps()
	Logger().Info("vbo: renderer", "vendor", c.caps.Vendor, "renderer", c.caps.Renderer,
		"version", c.caps.Version, "core", c.caps.CoreProfile)
	c.buildStock()
}

func (c *Context) release() {
	if c.refs == 0 {
		return
	}
	c.refs--
	if c.refs > 0 {
		return
	}
	for i, p := range c.stock {
		if p != 0 {
			c.dev.DeleteProgram(p)
			delete(c.locs, p)
			c.stock[i] = 0
		}
	}
	Logger().Info("vbo: stock programs released")
}

func (c *Context) buildStock() {
	if c.loader == nil {
		c.fatal(fmt.Errorf("%w: no shader loader", ErrShaderCompile))
	}
	vert, err := c.loader("stock.vert")
	if err != nil {
		c.fatal(err)
	}
	frag, err := c.loader("stock.frag")
	if err != nil {
		c.fatal(err)
	}
	for mask := range c.stock {
		var defs strings.Builder
		for bit, d := range stockDefines {
			if mask&(1<<bit) != 0 {
				defs.WriteString(d)
			}
		}
		p, err := c.dev.CompileProgram(defs.String()+vert, defs.String()+frag)
		if err != nil {
			c.fatal(fmt.Errorf("stock program %d: %w", mask, err))
		}
		c.stock[mask] = p
	}
	Logger().Info("vbo: stock programs built", "count", len(c.stock))
}

// CompileProgram builds a custom program. On failure the program is 0 and
// the error carries the driver diagnostic.
func (c *Context) CompileProgram(vertex, fragment string) (Program, error) {
	p, err := c.dev.CompileProgram(vertex, fragment)
	if err != nil {
		Logger().Error("vbo: compile program", "err", err)
		c.fail(err)
		return 0, err
	}
	return p, nil
}

// LoadProgram compiles a program from two sources named for the loader.
func (c *Context) LoadProgram(vertName, fragName string) (Program, error) {
	if c.loader == nil {
		err := fmt.Errorf("%w: no shader loader", ErrShaderCompile)
		c.fail(err)
		return 0, err
	}
	vert, err := c.loader(vertName)
	if err != nil {
		c.fail(err)
		return 0, err
	}
	frag, err := c.loader(fragName)
	if err != nil {
		c.fail(err)
		return 0, err
	}
	return c.CompileProgram(vert, frag)
}

func (c *Context) DeleteProgram(p Program) {
	if p != 0 {
		c.dev.DeleteProgram(p)
		delete(c.locs, p)
	}
}

// Close checks that every matrix stack is back to its single entry.
func (c *Context) Close() error {
	if err := c.checkBalanced(); err != nil {
		c.fail(err)
		return err
	}
	if c.refs > 0 {
		c.warnf("closing context with %d live buffers", c.refs)
	}
	return nil
}
