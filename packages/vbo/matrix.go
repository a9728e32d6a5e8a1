package vbo

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl32/matstack"
)

type MatrixMode int

const (
	PROJECTION MatrixMode = iota
	MODELVIEW
	TEXTURE
	PRE_MODEL
	PRE_TEXTURE
	numMatrixModes
)

var matrixModeNames = [...]string{"PROJECTION", "MODELVIEW", "TEXTURE", "PRE_MODEL", "PRE_TEXTURE"}

func (m MatrixMode) String() string {
	if m >= 0 && m < numMatrixModes {
		return matrixModeNames[m]
	}
	return "MatrixMode(?)"
}

// perVertex reports whether the mode may change between the vertices of one
// primitive.
func (m MatrixMode) perVertex() bool {
	return m == PRE_MODEL || m == PRE_TEXTURE
}

type stackEntry struct {
	identity bool
	// normal caches the inverse-transpose of the upper 3x3, valid unless stale.
	normal mgl32.Mat3
	stale  bool
}

// matrixStack is a matstack.MatStack with per entry bookkeeping.
type matrixStack struct {
	ms   *matstack.MatStack
	meta []stackEntry
}

func newMatrixStack() *matrixStack {
	return &matrixStack{
		ms:   matstack.NewMatStack(),
		meta: []stackEntry{{identity: true, normal: mgl32.Ident3()}},
	}
}

func (s *matrixStack) top() mgl32.Mat4 {
	return s.ms.Peek()
}

func (s *matrixStack) topMeta() *stackEntry {
	return &s.meta[len(s.meta)-1]
}

func (s *matrixStack) depth() int {
	return len(*s.ms)
}

func (s *matrixStack) isIdentity() bool {
	return s.topMeta().identity
}

func (s *matrixStack) push() {
	s.ms.Push()
	s.meta = append(s.meta, s.meta[len(s.meta)-1])
}

func (s *matrixStack) pop() error {
	if err := s.ms.Pop(); err != nil {
		return ErrStackUnderflow
	}
	s.meta = s.meta[:len(s.meta)-1]
	return nil
}

func (s *matrixStack) load(m mgl32.Mat4) {
	s.ms.Load(m)
	s.touched()
}

func (s *matrixStack) loadIdentity() {
	s.ms.LoadIdent()
	e := s.topMeta()
	e.identity, e.normal, e.stale = true, mgl32.Ident3(), false
}

func (s *matrixStack) mul(m mgl32.Mat4) {
	s.ms.RightMul(m)
	s.touched()
}

func (s *matrixStack) touched() {
	e := s.topMeta()
	e.identity = s.top() == mgl32.Ident4()
	e.stale = true
}

// normalMatrix returns the inverse-transpose of the top entry, recomputing it
// only after the entry changed.
func (s *matrixStack) normalMatrix() mgl32.Mat3 {
	e := s.topMeta()
	if e.stale {
		e.normal = s.top().Mat3().Inv().Transpose()
		e.stale = false
	}
	return e.normal
}

// MatrixMode selects the stack the matrix operations act on.
func (c *Context) MatrixMode(mode MatrixMode) {
	if mode < 0 || mode >= numMatrixModes {
		c.failf(ErrInvalidMatrixMode, "%d", mode)
		return
	}
	c.matrixMode = mode
}

func (c *Context) CurrentMatrixMode() MatrixMode {
	return c.matrixMode
}

// editable returns the current stack, or nil when it may not change now.
func (c *Context) editable(op string) *matrixStack {
	if c.open > 0 && !c.matrixMode.perVertex() {
		c.failf(ErrMatrixWhileOpen, "%s on %v", op, c.matrixMode)
		return nil
	}
	return c.stacks[c.matrixMode]
}

func (c *Context) PushMatrix() {
	s := c.editable("PushMatrix")
	if s == nil {
		return
	}
	if s.depth() >= c.cfg.MaxStackDepth {
		c.failf(ErrStackOverflow, "%v depth %d", c.matrixMode, s.depth())
		return
	}
	s.push()
}

func (c *Context) PopMatrix() {
	s := c.editable("PopMatrix")
	if s == nil {
		return
	}
	if err := s.pop(); err != nil {
		c.failf(err, "%v", c.matrixMode)
	}
}

func (c *Context) LoadIdentity() {
	if s := c.editable("LoadIdentity"); s != nil {
		s.loadIdentity()
	}
}

func (c *Context) LoadMatrix(m mgl32.Mat4) {
	if s := c.editable("LoadMatrix"); s != nil {
		s.load(m)
	}
}

// MultMatrix right-multiplies the current matrix by m.
func (c *Context) MultMatrix(m mgl32.Mat4) {
	if s := c.editable("MultMatrix"); s != nil {
		s.mul(m)
	}
}

func (c *Context) Translate(x, y, z float32) {
	c.MultMatrix(mgl32.Translate3D(x, y, z))
}

func (c *Context) Scale(x, y, z float32) {
	c.MultMatrix(mgl32.Scale3D(x, y, z))
}

// Rotate rotates by angle degrees around the axis (x, y, z). A zero axis is
// ignored.
func (c *Context) Rotate(angle, x, y, z float32) {
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		return
	}
	c.MultMatrix(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
}

func (c *Context) Ortho(left, right, bottom, top, near, far float32) {
	c.MultMatrix(mgl32.Ortho(left, right, bottom, top, near, far))
}

func (c *Context) Frustum(left, right, bottom, top, near, far float32) {
	c.MultMatrix(mgl32.Frustum(left, right, bottom, top, near, far))
}

// Perspective multiplies by a perspective projection, fovy in degrees.
func (c *Context) Perspective(fovy, aspect, near, far float32) {
	c.MultMatrix(mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far))
}

func (c *Context) LookAt(eye, center, up mgl32.Vec3) {
	c.MultMatrix(mgl32.LookAtV(eye, center, up))
}

// Matrix returns the top of the stack of mode.
func (c *Context) Matrix(mode MatrixMode) mgl32.Mat4 {
	if mode < 0 || mode >= numMatrixModes {
		return mgl32.Ident4()
	}
	return c.stacks[mode].top()
}

func (c *Context) StackDepth(mode MatrixMode) int {
	if mode < 0 || mode >= numMatrixModes {
		return 0
	}
	return c.stacks[mode].depth()
}

// SetManipulator installs a transform applied on top of the modelview of
// every buffer.
func (c *Context) SetManipulator(m mgl32.Mat4) {
	c.manipulator, c.hasManipulator = m, true
}

func (c *Context) ClearManipulator() {
	c.manipulator, c.hasManipulator = mgl32.Ident4(), false
}

// ModelView is the manipulator times the modelview stack top.
func (c *Context) ModelView() mgl32.Mat4 {
	mv := c.stacks[MODELVIEW].top()
	if c.hasManipulator {
		mv = c.manipulator.Mul4(mv)
	}
	return mv
}

func (c *Context) Projection() mgl32.Mat4 {
	return c.stacks[PROJECTION].top()
}

func (c *Context) ModelViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.ModelView())
}

// NormalMatrix is the inverse-transpose of the modelview's upper 3x3.
func (c *Context) NormalMatrix() mgl32.Mat3 {
	return c.ModelView().Mat3().Inv().Transpose()
}

// checkBalanced reports every stack that holds more than its initial entry.
func (c *Context) checkBalanced() error {
	var open []string
	for mode, s := range c.stacks {
		if s.depth() != 1 {
			open = append(open, fmt.Sprintf("%v=%d", MatrixMode(mode), s.depth()))
		}
	}
	if len(open) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnbalancedStack, strings.Join(open, ", "))
}
