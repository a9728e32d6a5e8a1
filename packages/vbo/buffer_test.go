package vbo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediateTriangle(t *testing.T) {
	c, dev := newTestContext(t, DefaultConfig())
	var lo, hi mgl32.Vec3
	var ok bool
	var prims int
	b := c.NewBuffer(BufferOptions{Immediate: true, Hooks: Hooks{
		PostRender: func(b *Buffer) {
			lo, hi, ok = b.BoundingBox()
			prims = b.PrimitiveCount()
		},
	}})

	b.Begin(TRIANGLES)
	b.Vertex(0, 0, 0)
	b.Vertex(1, 0, 0)
	b.Vertex(0, 1, 0)
	b.End()

	require.NoError(t, c.LastError())
	require.Len(t, dev.draws, 1)
	assert.Equal(t, drawCall{mode: TRIANGLES, count: 3, program: dev.draws[0].program}, dev.draws[0])
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, lo)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, hi)
	assert.Equal(t, 1, prims)

	assert.Equal(t, 0, b.Size())
	assert.Equal(t, 0, b.PrimitiveCount())
	assert.Equal(t, float32(0), b.Radius())
}

func TestCompiledPositionsExact(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	in := [][3]float32{{0.1, 0.2, 0.3}, {-5, 1e6, 3}, {7, -0.25, 11}, {1, 2, 3}, {4, 5, 6}, {-1, -2, -3}}
	b.Begin(TRIANGLES)
	for _, p := range in {
		b.Vertex(p[0], p[1], p[2])
	}
	b.End()
	require.NoError(t, c.LastError())

	assert.Equal(t, len(in), b.Size())
	assert.Equal(t, 2, b.PrimitiveCount())
	pos := b.Positions()
	for i, p := range in {
		assert.Equal(t, []float32{p[0], p[1], p[2], 1}, pos[i*4:i*4+4])
	}
}

func TestProtocolErrors(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})

	b.Vertex(1, 2, 3)
	assert.ErrorIs(t, c.LastError(), ErrNotCollecting)
	assert.NoError(t, c.LastError())
	assert.Equal(t, 0, b.Size())

	b.End()
	assert.ErrorIs(t, c.LastError(), ErrEndWithoutBegin)

	b.Begin(PrimitiveMode(42))
	assert.ErrorIs(t, c.LastError(), ErrInvalidPrimitive)
	assert.False(t, b.Collecting())

	b.Begin(POINTS)
	b.Begin(POINTS)
	assert.ErrorIs(t, c.LastError(), ErrAlreadyCollecting)
	b.Render()
	assert.ErrorIs(t, c.LastError(), ErrRenderWhileOpen)
	b.End()
	assert.NoError(t, c.LastError())

	b.Destroy()
	b.Begin(POINTS)
	err := c.LastError()
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.True(t, IsProtocolError(err))
}

func TestCompiledMismatch(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	b.Begin(TRIANGLES)
	b.Vertex(0, 0, 0)
	b.End()

	b.Begin(LINES)
	assert.ErrorIs(t, c.LastError(), ErrMismatchedPrimitive)
	assert.False(t, b.Collecting())
	assert.Equal(t, TRIANGLES, b.Mode())

	b.Reset()
	b.Begin(LINES)
	assert.NoError(t, c.LastError())
	b.End()
}

func TestCannotContinue(t *testing.T) {
	for _, mode := range []PrimitiveMode{LINE_STRIP, LINE_LOOP, TRIANGLE_FAN} {
		t.Run(mode.String(), func(t *testing.T) {
			c, _ := newTestContext(t, DefaultConfig())
			b := c.NewBuffer(BufferOptions{})
			b.Begin(mode)
			b.Vertex(0, 0, 0)
			b.Vertex(1, 0, 0)
			b.Vertex(1, 1, 0)
			b.End()
			b.Begin(mode)
			assert.ErrorIs(t, c.LastError(), ErrCannotContinue)
			assert.Equal(t, 3, b.Size())
		})
	}
}

func TestImmediateAllowsAnyMode(t *testing.T) {
	c, dev := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{Immediate: true})
	for _, mode := range []PrimitiveMode{LINE_STRIP, LINE_STRIP, TRIANGLES} {
		b.Begin(mode)
		b.Vertex(0, 0, 0)
		b.Vertex(1, 0, 0)
		b.Vertex(1, 1, 0)
		b.End()
	}
	assert.NoError(t, c.LastError())
	assert.Len(t, dev.draws, 3)
	assert.Equal(t, TRIANGLES, dev.draws[2].mode)
}

func TestPendingStatePersists(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	b.Begin(POINTS)
	b.Vertex(0, 0, 0)
	b.Color(1, 0, 0, 0.5)
	b.Normal(0, 1, 0)
	b.TexCoord(0.25, 0.75)
	b.Vertex(1, 0, 0)
	b.Vertex(2, 0, 0)
	b.End()

	assert.True(t, b.HasColor())
	assert.True(t, b.HasNormal())
	assert.True(t, b.HasTexCoord())
	col := b.Colors()
	assert.Equal(t, []float32{1, 1, 1, 1}, col[0:4])
	assert.Equal(t, []float32{1, 0, 0, 0.5}, col[4:8])
	assert.Equal(t, []float32{1, 0, 0, 0.5}, col[8:12])
	nrm := b.Normals()
	assert.Equal(t, []float32{0, 0, 1}, nrm[0:3])
	assert.Equal(t, []float32{0, 1, 0}, nrm[6:9])
	assert.Equal(t, []float32{0.25, 0.75, 0, 1}, b.TexCoords()[8:12])

	b.Reset()
	assert.False(t, b.HasColor())
	b.Begin(POINTS)
	b.Vertex(0, 0, 0)
	b.End()
	assert.Equal(t, []float32{1, 1, 1, 1}, b.Colors())
}

func TestImmediateKeepsPendingAcrossBatches(t *testing.T) {
	c, dev := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{Immediate: true})
	b.Color(0, 1, 0, 1)
	b.Begin(POINTS)
	b.Vertex(0, 0, 0)
	b.End()
	b.Begin(POINTS)
	b.Vertex(0, 0, 0)
	b.End()

	var colors []upload
	for _, u := range dev.uploads {
		if u.ch == ChannelColor {
			colors = append(colors, u)
		}
	}
	require.Len(t, colors, 2)
	assert.Equal(t, []float32{0, 1, 0, 1}, colors[1].data)
}

func TestPreModelTransform(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	b.Begin(POINTS)
	b.Normal(1, 0, 0)
	b.Vertex(1, 1, 1)

	c.MatrixMode(PRE_MODEL)
	c.Scale(2, 1, 1)
	c.Translate(1, 0, 0)
	require.NoError(t, c.LastError())
	b.Vertex(1, 1, 1)

	c.MatrixMode(MODELVIEW)
	c.Translate(5, 5, 5)
	assert.ErrorIs(t, c.LastError(), ErrMatrixWhileOpen)
	b.End()

	pos := b.Positions()
	assert.Equal(t, []float32{1, 1, 1, 1}, pos[0:4])
	assert.Equal(t, []float32{4, 1, 1, 1}, pos[4:8])
	nrm := b.Normals()
	assert.InDeltaSlice(t, []float32{0.5, 0, 0}, nrm[3:6], 1e-6)
	assert.Equal(t, mgl32.Ident4(), c.Matrix(MODELVIEW))

	c.MatrixMode(PRE_MODEL)
	c.LoadIdentity()
	assert.NoError(t, c.Close())
}

func TestPreTextureAndTexGen(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	c.MatrixMode(PRE_TEXTURE)
	c.Translate(0.5, 0, 0)
	b.Begin(POINTS)
	b.TexCoord(0.25, 0.25)
	b.Vertex(0, 0, 0)
	b.End()
	assert.Equal(t, []float32{0.75, 0.25, 0, 1}, b.TexCoords())

	c.LoadIdentity()
	c.SetTexGen(TexGenHemisphere)
	b.Reset()
	b.Begin(POINTS)
	b.Normal(0, 0, 1)
	b.Vertex(0, 0, 0)
	b.End()
	assert.True(t, b.HasTexCoord())
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 0, 1}, b.TexCoords(), 1e-6)
}

func TestTriangleStripContinuation(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	pts := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {5, 0, 0}, {6, 0, 0}, {5, 1, 0}}
	for run := 0; run < 2; run++ {
		b.Begin(TRIANGLE_STRIP)
		for _, p := range pts[run*3 : run*3+3] {
			b.Vertex(p[0], p[1], p[2])
		}
		b.End()
	}
	require.NoError(t, c.LastError())
	assert.Equal(t, 9, b.Size())
	assert.Equal(t, 2, b.PrimitiveCount())

	tris := visibleTriangles(b)
	assert.Equal(t, [][3]mgl32.Vec3{
		{pts[0], pts[1], pts[2]},
		{pts[3], pts[4], pts[5]},
	}, tris)
}

func TestQuadStripContinuationNative(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	for run := 0; run < 2; run++ {
		off := float32(run * 10)
		b.Begin(QUAD_STRIP)
		b.Vertex(off, 0, 0)
		b.Vertex(off, 1, 0)
		b.Vertex(off+1, 0, 0)
		b.Vertex(off+1, 1, 0)
		b.End()
	}
	require.NoError(t, c.LastError())
	assert.Equal(t, QUAD_STRIP, b.DrawMode())
	assert.Equal(t, 12, b.Size())
	assert.Equal(t, 2, b.PrimitiveCount())
	assert.Len(t, visibleTriangles(b), 4)
}

func TestOutOfMemoryDropsVertex(t *testing.T) {
	c, _ := newTestContext(t, Config{InitialCapacity: 2, MaxVertices: 2})
	b := c.NewBuffer(BufferOptions{})
	b.Begin(POINTS)
	b.Vertex(0, 0, 0)
	b.Vertex(1, 0, 0)
	assert.NoError(t, c.LastError())
	b.Vertex(2, 0, 0)
	assert.ErrorIs(t, c.LastError(), ErrOutOfMemory)
	b.End()
	assert.Equal(t, 2, b.Size())
	assert.Equal(t, 2, b.PrimitiveCount())
}

func TestAttributes(t *testing.T) {
	c, _ := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	b.Attrib(MaxAttributes, 0, 0, 0, 0)
	assert.ErrorIs(t, c.LastError(), ErrInvalidAttribute)

	b.Begin(POINTS)
	b.Vertex(0, 0, 0)
	b.Attrib(2, 1, 2, 3, 4)
	b.Vertex(1, 0, 0)
	b.End()
	assert.True(t, b.HasAttribute(2))
	assert.False(t, b.HasAttribute(0))
	assert.Equal(t, []float32{0, 0, 0, 0, 1, 2, 3, 4}, b.Attribute(2))
	assert.Nil(t, b.Attribute(0))
}

func TestResetAndClear(t *testing.T) {
	c, dev := newTestContext(t, DefaultConfig())
	b := c.NewBuffer(BufferOptions{})
	b.Begin(TRIANGLES)
	b.Vertex(0, 0, 0)
	b.Vertex(1, 0, 0)
	b.Vertex(0, 1, 0)
	b.End()
	b.Render()
	assert.Equal(t, 3, b.Capacity())

	b.Reset()
	assert.Equal(t, 0, b.Size())
	assert.Equal(t, 3, b.Capacity())
	_, _, ok := b.BoundingBox()
	assert.False(t, ok)

	b.Clear()
	assert.Equal(t, 0, b.Capacity())
	assert.Len(t, dev.vaFreed, 1)
}

func TestStockBankLifetime(t *testing.T) {
	c, dev := newTestContext(t, DefaultConfig())
	var inits, exits int
	hooks := Hooks{Init: func(*Buffer) { inits++ }, Exit: func(*Buffer) { exits++ }}

	a := c.NewBuffer(BufferOptions{Hooks: hooks})
	assert.Len(t, dev.programs, numStockPrograms)
	assert.Equal(t, "fake", c.Caps().Vendor)
	b := c.NewBuffer(BufferOptions{Hooks: hooks})
	assert.Len(t, dev.programs, numStockPrograms)
	assert.Equal(t, "#define HAS_COLOR\n#define HAS_TEXTURE\n// stock.vert\n",
		dev.programs[c.stock[stockColor|stockTexturing]][0])
	assert.Equal(t, "// stock.frag\n", dev.programs[c.stock[0]][1])

	a.Destroy()
	assert.Len(t, dev.programs, numStockPrograms)
	b.Destroy()
	b.Destroy()
	assert.Empty(t, dev.programs)
	assert.Equal(t, 2, inits)
	assert.Equal(t, 2, exits)
}

func TestStockBankFailureIsFatal(t *testing.T) {
	c, dev := newTestContext(t, DefaultConfig())
	dev.failNext = ErrShaderCompile
	assert.Panics(t, func() { c.NewBuffer(BufferOptions{}) })
}

// visibleTriangles returns the non degenerate triangles a buffer draws.
func visibleTriangles(b *Buffer) [][3]mgl32.Vec3 {
	pos := b.Positions()
	at := func(i int) mgl32.Vec3 { return mgl32.Vec3{pos[i*4], pos[i*4+1], pos[i*4+2]} }
	var out [][3]mgl32.Vec3
	for _, tri := range Triangulate(b.DrawMode(), b.Size()) {
		p := [3]mgl32.Vec3{at(tri[0]), at(tri[1]), at(tri[2])}
		if p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Len() == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}
