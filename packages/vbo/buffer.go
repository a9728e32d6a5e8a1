package vbo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxSamplers is the number of texture units a buffer can bind.
const MaxSamplers = 4

// Hooks are optional callbacks run around a buffer's life and draws.
type Hooks struct {
	Init       func(b *Buffer)
	Exit       func(b *Buffer)
	PreRender  func(b *Buffer)
	PostRender func(b *Buffer)
}

type BufferOptions struct {
	// Immediate buffers draw and reset at every End.
	Immediate bool
	Hooks     Hooks
}

// pendingState is what the next Vertex call picks up. It survives vertex
// emission so unchanged attributes repeat.
type pendingState struct {
	color    mgl32.Vec4
	normal   mgl32.Vec3
	tex      mgl32.Vec4
	attr     [MaxAttributes]mgl32.Vec4
	colorSet bool
	nrmSet   bool
	texSet   bool
	attrSet  [MaxAttributes]bool
}

func defaultPending() pendingState {
	return pendingState{
		color:  mgl32.Vec4{1, 1, 1, 1},
		normal: mgl32.Vec3{0, 0, 1},
		tex:    mgl32.Vec4{0, 0, 0, 1},
	}
}

// Buffer collects vertices between Begin and End and renders them.
type Buffer struct {
	ctx   *Context
	opts  BufferOptions
	store *attribStore

	mode     PrimitiveMode
	drawMode PrimitiveMode
	// fixed is set once a compiled buffer stored its first vertex.
	fixed      bool
	collecting bool
	rearrange  bool
	quads      quadStripper
	// batch counts the logical vertices of the current Begin/End run.
	batch      int
	continuing bool
	primitives int

	pending     pendingState
	hasColor    bool
	hasNormal   bool
	hasTexCoord bool

	model      mgl32.Mat4
	hasModel   bool
	colorScale mgl32.Vec4
	textures   [MaxSamplers]Texture
	program    Program
	uniforms   uniformTable

	va        VertexArray
	destroyed bool
}

// NewBuffer creates a buffer. The first buffer of a context probes the
// device and builds the stock programs.
func (c *Context) NewBuffer(opts BufferOptions) *Buffer {
	b := &Buffer{
		ctx:        c,
		opts:       opts,
		store:      newAttribStore(c.cfg.InitialCapacity, c.cfg.MaxVertices),
		pending:    defaultPending(),
		model:      mgl32.Ident4(),
		colorScale: mgl32.Vec4{1, 1, 1, 1},
	}
	c.acquire()
	if opts.Hooks.Init != nil {
		opts.Hooks.Init(b)
	}
	return b
}

func (b *Buffer) Context() *Context {
	return b.ctx
}

func (b *Buffer) Immediate() bool {
	return b.opts.Immediate
}

func (b *Buffer) alive() bool {
	if b.destroyed {
		b.ctx.fail(ErrDestroyed)
		return false
	}
	return true
}

// Begin starts a run of mode. In a compiled buffer that already holds
// vertices, mode must match the stored mode and be continuable.
func (b *Buffer) Begin(mode PrimitiveMode) {
	if !b.alive() {
		return
	}
	if b.collecting {
		b.ctx.fail(ErrAlreadyCollecting)
		return
	}
	if !mode.IsValid() {
		b.ctx.failf(ErrInvalidPrimitive, "%d", mode)
		return
	}
	b.continuing = false
	if b.fixed {
		if mode != b.mode {
			b.ctx.failf(ErrMismatchedPrimitive, "buffer holds %v, begin %v", b.mode, mode)
			return
		}
		if !mode.continuable() {
			b.ctx.failf(ErrCannotContinue, "%v", mode)
			return
		}
		b.continuing = b.store.size > 0
	}
	b.mode = mode
	b.drawMode = mode
	b.rearrange = false
	if mode.isQuad() && b.ctx.quadsForbidden() {
		b.drawMode = TRIANGLE_STRIP
		b.rearrange = mode == QUADS
	}
	b.quads.reset()
	b.batch = 0
	b.collecting = true
	b.ctx.open++
}

// End closes the run. Immediate buffers render and reset here.
func (b *Buffer) End() {
	if !b.alive() {
		return
	}
	if !b.collecting {
		b.ctx.fail(ErrEndWithoutBegin)
		return
	}
	b.collecting = false
	b.ctx.open--
	if n := b.quads.pending(); n > 0 {
		b.store.truncate(b.store.size - n)
		b.batch -= n
		b.quads.reset()
	}
	b.primitives += PrimitiveCount(b.mode, b.batch)
	if b.opts.Immediate {
		b.render()
		b.resetGeometry()
	}
}

func (b *Buffer) Vertex(x, y, z float32) {
	b.Vertex4(x, y, z, 1)
}

func (b *Buffer) Vertex2(x, y float32) {
	b.Vertex4(x, y, 0, 1)
}

// Vertex4 emits a vertex with the pending attributes.
func (b *Buffer) Vertex4(x, y, z, w float32) {
	if !b.alive() {
		return
	}
	if !b.collecting {
		b.ctx.fail(ErrNotCollecting)
		return
	}
	c := b.ctx
	v := vertex{
		pos:  mgl32.Vec4{x, y, z, w},
		col:  b.pending.color,
		nrm:  b.pending.normal,
		tex:  b.pending.tex,
		attr: b.pending.attr,
	}
	if pre := c.stacks[PRE_MODEL]; !pre.isIdentity() {
		v.pos = pre.top().Mul4x1(v.pos)
		if b.pending.nrmSet {
			v.nrm = pre.normalMatrix().Mul3x1(v.nrm)
		}
	}
	texSet := b.pending.texSet
	if t, ok := genTexCoord(c.state.TexGen, v.pos, v.nrm); ok {
		v.tex, texSet = t, true
	}
	if pre := c.stacks[PRE_TEXTURE]; texSet && !pre.isIdentity() {
		v.tex = pre.top().Mul4x1(v.tex)
	}
	v.bary = barycentric(b.mode, b.batch)

	extra := 0
	if b.continuing && b.batch == 0 {
		extra = b.replayCount()
	}
	if err := b.store.ensure(1 + extra); err != nil {
		c.failf(err, "%d vertices", b.store.size)
		return
	}
	if extra > 0 {
		b.replay(&v)
	}
	b.store.append(&v)
	b.batch++
	b.fixed = b.fixed || !b.opts.Immediate
	b.hasColor = b.hasColor || b.pending.colorSet
	b.hasNormal = b.hasNormal || b.pending.nrmSet
	b.hasTexCoord = b.hasTexCoord || texSet
	if b.rearrange {
		if err := b.quads.push(b.store); err != nil {
			b.batch -= 4
			c.failf(err, "%d vertices", b.store.size)
		}
	}
}

// replayCount is the number of seam vertices inserted before the first
// vertex of a continued strip.
func (b *Buffer) replayCount() int {
	switch {
	case b.drawMode == TRIANGLE_STRIP && !b.rearrange:
		return 1 + b.store.size%2 + 1
	case b.drawMode == QUAD_STRIP:
		return 4
	}
	return 0
}

// replay repeats the stored last vertex and then the new first vertex v, so
// the seam only produces degenerate primitives and the new strip keeps its
// winding.
func (b *Buffer) replay(v *vertex) {
	s := b.store
	last := s.at(s.size - 1)
	reps := 2
	if b.drawMode == TRIANGLE_STRIP {
		reps = 1 + s.size%2
	}
	for range reps {
		s.append(&last)
	}
	firsts := 1
	if b.drawMode == QUAD_STRIP {
		firsts = 2
	}
	for range firsts {
		s.append(v)
	}
}

func (b *Buffer) Color(r, g, bl, a float32) {
	b.pending.color = mgl32.Vec4{r, g, bl, a}
	b.pending.colorSet = true
}

func (b *Buffer) Color3(r, g, bl float32) {
	b.Color(r, g, bl, 1)
}

func (b *Buffer) Normal(x, y, z float32) {
	b.pending.normal = mgl32.Vec3{x, y, z}
	b.pending.nrmSet = true
}

func (b *Buffer) TexCoord(s, t float32) {
	b.TexCoord3(s, t, 0)
}

func (b *Buffer) TexCoord3(s, t, r float32) {
	b.pending.tex = mgl32.Vec4{s, t, r, 1}
	b.pending.texSet = true
}

// Attrib stages generic attribute k, bound at location ChannelAttribute0+k.
func (b *Buffer) Attrib(k int, x, y, z, w float32) {
	if k < 0 || k >= MaxAttributes {
		b.ctx.failf(ErrInvalidAttribute, "%d", k)
		return
	}
	b.pending.attr[k] = mgl32.Vec4{x, y, z, w}
	b.pending.attrSet[k] = true
	b.store.useAttribute(k)
}

func (b *Buffer) resetGeometry() {
	b.store.reset()
	b.quads.reset()
	b.primitives = 0
	b.batch = 0
	b.fixed = false
	b.continuing = false
}

// Reset empties the buffer, keeping its storage, and restores the pending
// attributes to their defaults.
func (b *Buffer) Reset() {
	if !b.alive() {
		return
	}
	if b.collecting {
		b.ctx.fail(ErrAlreadyCollecting)
		return
	}
	b.resetGeometry()
	b.pending = defaultPending()
	b.hasColor, b.hasNormal, b.hasTexCoord = false, false, false
}

// Clear is Reset that also frees the storage and the vertex array.
func (b *Buffer) Clear() {
	if !b.alive() {
		return
	}
	if b.collecting {
		b.ctx.fail(ErrAlreadyCollecting)
		return
	}
	b.Reset()
	b.store.release()
	if b.va != 0 {
		b.ctx.dev.DeleteVertexArray(b.va)
		b.va = 0
	}
}

// Destroy releases everything the buffer owns. The last buffer of a context
// also releases the stock programs.
func (b *Buffer) Destroy() {
	if b.destroyed {
		return
	}
	if b.collecting {
		b.collecting = false
		b.ctx.open--
	}
	if b.opts.Hooks.Exit != nil {
		b.opts.Hooks.Exit(b)
	}
	b.store.release()
	if b.va != 0 {
		b.ctx.dev.DeleteVertexArray(b.va)
		b.va = 0
	}
	b.destroyed = true
	b.ctx.release()
}

// Size is the number of stored vertices, seam vertices included.
func (b *Buffer) Size() int {
	return b.store.size
}

func (b *Buffer) Capacity() int {
	return b.store.capacity
}

// PrimitiveCount counts the primitives of every finished run.
func (b *Buffer) PrimitiveCount() int {
	return b.primitives
}

// Mode is the primitive mode given to Begin.
func (b *Buffer) Mode() PrimitiveMode {
	return b.mode
}

// DrawMode is the mode handed to the device, TRIANGLE_STRIP for emulated
// quads.
func (b *Buffer) DrawMode() PrimitiveMode {
	return b.drawMode
}

func (b *Buffer) Collecting() bool {
	return b.collecting
}

func (b *Buffer) HasColor() bool    { return b.hasColor }
func (b *Buffer) HasNormal() bool   { return b.hasNormal }
func (b *Buffer) HasTexCoord() bool { return b.hasTexCoord }

// HasAttribute reports whether generic slot k is in use.
func (b *Buffer) HasAttribute(k int) bool {
	return k >= 0 && k < MaxAttributes && b.store.attrUsed[k]
}

// BoundingBox returns the box of the stored positions. ok is false while the
// buffer is empty, when both corners are NaN.
func (b *Buffer) BoundingBox() (lo, hi mgl32.Vec3, ok bool) {
	return b.store.min, b.store.max, b.store.size > 0 && b.store.boxValid()
}

// BoundingSphere encloses the bounding box.
func (b *Buffer) BoundingSphere() (center mgl32.Vec3, radius float32) {
	lo, hi, ok := b.BoundingBox()
	if !ok {
		return mgl32.Vec3{}, 0
	}
	return lo.Add(hi).Mul(0.5), hi.Sub(lo).Len() / 2
}

func (b *Buffer) Radius() float32 {
	_, r := b.BoundingSphere()
	return r
}

func (b *Buffer) copyChannel(ch Channel) []float32 {
	src := b.store.channel(ch)
	if src == nil {
		return nil
	}
	out := make([]float32, len(src))
	copy(out, src)
	return out
}

// Positions returns a copy of the position channel, four floats per vertex.
func (b *Buffer) Positions() []float32    { return b.copyChannel(ChannelPosition) }
func (b *Buffer) Colors() []float32       { return b.copyChannel(ChannelColor) }
func (b *Buffer) Normals() []float32      { return b.copyChannel(ChannelNormal) }
func (b *Buffer) TexCoords() []float32    { return b.copyChannel(ChannelTexCoord) }
func (b *Buffer) Barycentrics() []float32 { return b.copyChannel(ChannelBarycentric) }

// Attribute returns a copy of generic slot k, or nil if it is unused.
func (b *Buffer) Attribute(k int) []float32 {
	if k < 0 || k >= MaxAttributes {
		return nil
	}
	return b.copyChannel(ChannelAttribute0 + Channel(k))
}

// SetModelMatrix sets a transform applied after the modelview stack when the
// buffer renders.
func (b *Buffer) SetModelMatrix(m mgl32.Mat4) {
	b.model = m
	b.hasModel = m != mgl32.Ident4()
}

func (b *Buffer) ModelMatrix() mgl32.Mat4 {
	return b.model
}

// SetColorScale modulates every vertex color when drawn and exported.
func (b *Buffer) SetColorScale(r, g, bl, a float32) {
	b.colorScale = mgl32.Vec4{r, g, bl, a}
}

// SetTexture binds tex to sampler. An invalid texture unbinds it.
func (b *Buffer) SetTexture(tex Texture, sampler int) {
	if sampler < 0 || sampler >= MaxSamplers {
		b.ctx.failf(ErrInvalidUniform, "sampler %d", sampler)
		return
	}
	b.textures[sampler] = tex
}

// SetProgram makes the buffer draw with p instead of a stock program.
func (b *Buffer) SetProgram(p Program) {
	b.program = p
}

func (b *Buffer) ClearProgram() {
	b.program = 0
}

func (b *Buffer) Program() Program {
	return b.program
}

// modelView is the context modelview with the buffer model matrix applied.
func (b *Buffer) modelView() mgl32.Mat4 {
	mv := b.ctx.ModelView()
	if b.hasModel {
		mv = mv.Mul4(b.model)
	}
	return mv
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer{%v size=%d cap=%d prims=%d}", b.mode, b.store.size, b.store.capacity, b.primitives)
}
