package vbo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type upload struct {
	va   VertexArray
	ch   Channel
	data []float32
}

type drawCall struct {
	mode    PrimitiveMode
	first   int
	count   int
	program Program
	texture Texture
}

// fakeDevice records what the core asks of the GPU.
type fakeDevice struct {
	caps     Caps
	nextID   uint32
	programs map[Program][2]string
	current  Program
	bound    VertexArray
	enabled  map[Channel]bool
	blend    BlendMode
	failNext error

	// uniform names known to every program; others resolve to -1
	known    map[string]int32
	uniforms map[int32]UniformValue

	uploads  []upload
	draws    []drawCall
	deleted  []Program
	vaFreed  []VertexArray
	textures map[int]Texture
}

func newFakeDevice() *fakeDevice {
	d := &fakeDevice{
		caps:     Caps{Vendor: "fake", Renderer: "recorder", Version: "3.3"},
		programs: make(map[Program][2]string),
		enabled:  make(map[Channel]bool),
		known:    make(map[string]int32),
		uniforms: make(map[int32]UniformValue),
		textures: make(map[int]Texture),
	}
	for i, n := range []string{"mvp", "mv", "normalMatrix", "texMatrix", "colorScale",
		"lightDir", "fogMode", "clipMask", "clipPlanes[0]", "wireframe", "tex",
		"lightAmbient", "lightDiffuse", "fogColor", "fogParams", "alphaFunc", "alphaRef",
		"wireColor", "wireWidth", "interlace"} {
		d.known[n] = int32(i)
	}
	return d
}

func (d *fakeDevice) Caps() Caps { return d.caps }

func (d *fakeDevice) CompileProgram(vertex, fragment string) (Program, error) {
	if d.failNext != nil {
		err := d.failNext
		d.failNext = nil
		return 0, err
	}
	d.nextID++
	p := Program(d.nextID)
	d.programs[p] = [2]string{vertex, fragment}
	return p, nil
}

func (d *fakeDevice) DeleteProgram(p Program) {
	delete(d.programs, p)
	d.deleted = append(d.deleted, p)
}

func (d *fakeDevice) CurrentProgram() Program { return d.current }
func (d *fakeDevice) UseProgram(p Program)    { d.current = p }

func (d *fakeDevice) UniformLocation(p Program, name string) int32 {
	if loc, ok := d.known[name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDevice) SetUniform(loc int32, v UniformValue) {
	d.uniforms[loc] = v
}

func (d *fakeDevice) NewVertexArray() VertexArray {
	d.nextID++
	return VertexArray(d.nextID)
}

func (d *fakeDevice) DeleteVertexArray(va VertexArray) {
	d.vaFreed = append(d.vaFreed, va)
}

func (d *fakeDevice) BindVertexArray(va VertexArray) { d.bound = va }

func (d *fakeDevice) Upload(va VertexArray, ch Channel, data []float32) {
	cp := make([]float32, len(data))
	copy(cp, data)
	d.uploads = append(d.uploads, upload{va, ch, cp})
}

func (d *fakeDevice) EnableAttribute(va VertexArray, ch Channel) { d.enabled[ch] = true }
func (d *fakeDevice) DisableAttribute(ch Channel)                { delete(d.enabled, ch) }
func (d *fakeDevice) SetBlend(mode BlendMode)                    { d.blend = mode }

func (d *fakeDevice) BindTexture(unit int, tex Texture) {
	if tex.IsValid() {
		d.textures[unit] = tex
	} else {
		delete(d.textures, unit)
	}
}

func (d *fakeDevice) Draw(mode PrimitiveMode, first, count int) {
	d.draws = append(d.draws, drawCall{mode, first, count, d.current, d.textures[0]})
}

func fakeLoader(name string) (string, error) {
	switch name {
	case "stock.vert", "stock.frag", "custom.vert", "custom.frag":
		return "// " + name + "\n", nil
	}
	return "", fmt.Errorf("no shader %q", name)
}

func newTestContext(t *testing.T, cfg Config) (*Context, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	c := NewContext(dev, cfg)
	c.SetShaderLoader(fakeLoader)
	require.NotNil(t, c)
	return c, dev
}

func (d *fakeDevice) lastDraw(t *testing.T) drawCall {
	t.Helper()
	require.NotEmpty(t, d.draws)
	return d.draws[len(d.draws)-1]
}
