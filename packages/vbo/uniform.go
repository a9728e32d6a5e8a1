package vbo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformValue is one of UniformInt, UniformFloat, UniformVec2, UniformVec3,
// UniformVec4, UniformMat3 or UniformMat4.
type UniformValue interface {
	uniformKind() string
}

type (
	UniformInt   int32
	UniformFloat float32
	UniformVec2  mgl32.Vec2
	UniformVec3  mgl32.Vec3
	UniformVec4  mgl32.Vec4
	UniformMat3  mgl32.Mat3
	UniformMat4  mgl32.Mat4
)

func (UniformInt) uniformKind() string   { return "int" }
func (UniformFloat) uniformKind() string { return "float" }
func (UniformVec2) uniformKind() string  { return "vec2" }
func (UniformVec3) uniformKind() string  { return "vec3" }
func (UniformVec4) uniformKind() string  { return "vec4" }
func (UniformMat3) uniformKind() string  { return "mat3" }
func (UniformMat4) uniformKind() string  { return "mat4" }

// uniformSlot is a named user uniform. Its index in the table never changes.
type uniformSlot struct {
	name  string
	value UniformValue
	warn  bool

	loc     int32
	locProg Program
	warned  Program
}

type uniformTable struct {
	slots []uniformSlot
	index map[string]int
}

func (t *uniformTable) lookup(name string, warn bool) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.slots = append(t.slots, uniformSlot{name: name, warn: warn, loc: -1})
	t.index[name] = len(t.slots) - 1
	return len(t.slots) - 1
}

func (t *uniformTable) set(i int, v UniformValue) error {
	if i < 0 || i >= len(t.slots) || v == nil {
		return fmt.Errorf("%w: index %d", ErrInvalidUniform, i)
	}
	s := &t.slots[i]
	if s.value != nil && s.value.uniformKind() != v.uniformKind() {
		return fmt.Errorf("%w: %s is %s, got %s", ErrUniformTypeMismatch,
			s.name, s.value.uniformKind(), v.uniformKind())
	}
	s.value = v
	return nil
}

// UniformIndex returns the slot of name, creating an untyped one on first
// use. The index stays valid for the life of the buffer.
func (b *Buffer) UniformIndex(name string) int {
	return b.uniforms.lookup(name, b.ctx.cfg.WarnMissingUniforms)
}

func (b *Buffer) SetUniform(name string, v UniformValue) {
	b.SetUniformAt(b.UniformIndex(name), v)
}

// SetUniformAt assigns slot i. The first assignment fixes the slot's type.
func (b *Buffer) SetUniformAt(i int, v UniformValue) {
	if err := b.uniforms.set(i, v); err != nil {
		b.ctx.fail(err)
	}
}

// Uniform returns the value of name, or nil while it is unset.
func (b *Buffer) Uniform(name string) UniformValue {
	i, ok := b.uniforms.index[name]
	if !ok {
		return nil
	}
	return b.uniforms.slots[i].value
}

// SetUniformWarn controls the missing location warning of name.
func (b *Buffer) SetUniformWarn(name string, warn bool) {
	b.uniforms.slots[b.UniformIndex(name)].warn = warn
}

// uploadUniforms sends every typed slot to prog, resolving locations the
// first time a slot meets a program.
func (b *Buffer) uploadUniforms(prog Program) {
	dev := b.ctx.dev
	for i := range b.uniforms.slots {
		s := &b.uniforms.slots[i]
		if s.value == nil {
			continue
		}
		if s.locProg != prog {
			s.loc = dev.UniformLocation(prog, s.name)
			s.locProg = prog
		}
		if s.loc < 0 {
			if s.warn && s.warned != prog {
				s.warned = prog
				b.ctx.warnf("uniform %q not found in program %d", s.name, prog)
			}
			continue
		}
		dev.SetUniform(s.loc, s.value)
	}
}
