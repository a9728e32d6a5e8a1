package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ikemen-engine/glvbo/packages/vbo"
)

// ------------------------------------------------------------------
// shaderProgram

type shaderProgram struct {
	program uint32
	u       map[string]int32
}

func glStr(s string) *uint8 {
	return gl.Str(s + "\x00")
}

func (s *shaderProgram) RegisterUniforms(names ...string) {
	for _, name := range names {
		s.u[name] = gl.GetUniformLocation(s.program, glStr(name))
	}
}

func compileShader(shaderType uint32, src string) (shader uint32, err error) {
	shader = gl.CreateShader(shaderType)
	src = "#version 330\n" + src + "\x00"
	s, free := gl.Strs(src)
	defer free()
	var l int32 = int32(len(src) - 1)
	gl.ShaderSource(shader, 1, s, &l)
	gl.CompileShader(shader)
	var ok int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &ok)
	if ok == 0 {
		var size, l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &size)
		if size > 0 {
			str := make([]byte, size+1)
			gl.GetShaderInfoLog(shader, size, &l, &str[0])
			err = fmt.Errorf("%w: %s", vbo.ErrShaderCompile, str[:l])
		} else {
			err = fmt.Errorf("%w: unknown error", vbo.ErrShaderCompile)
		}
		gl.DeleteShader(shader)
		return 0, err
	}
	return shader, nil
}

// linkProgram binds every vbo channel to its fixed location before linking.
func linkProgram(params ...uint32) (program uint32, err error) {
	program = gl.CreateProgram()
	for _, param := range params {
		gl.AttachShader(program, param)
	}
	for ch := vbo.Channel(0); int(ch) < vbo.NumChannels; ch++ {
		gl.BindAttribLocation(program, uint32(ch), glStr(ch.AttributeName()))
	}
	gl.LinkProgram(program)
	// Mark shaders for deletion when the program is deleted
	for _, param := range params {
		gl.DeleteShader(param)
	}
	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == 0 {
		var size, l int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &size)
		if size > 0 {
			str := make([]byte, size+1)
			gl.GetProgramInfoLog(program, size, &l, &str[0])
			err = fmt.Errorf("%w: %s", vbo.ErrShaderLink, str[:l])
		} else {
			err = fmt.Errorf("%w: unknown error", vbo.ErrShaderLink)
		}
		gl.DeleteProgram(program)
		return 0, err
	}
	return program, nil
}

func (r *Renderer) CompileProgram(vert, frag string) (vbo.Program, error) {
	vertObj, err := compileShader(gl.VERTEX_SHADER, vert)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	fragObj, err := compileShader(gl.FRAGMENT_SHADER, frag)
	if err != nil {
		gl.DeleteShader(vertObj)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	prog, err := linkProgram(vertObj, fragObj)
	if err != nil {
		return 0, err
	}
	r.programs[vbo.Program(prog)] = &shaderProgram{program: prog, u: make(map[string]int32)}
	return vbo.Program(prog), nil
}

func (r *Renderer) DeleteProgram(p vbo.Program) {
	if _, ok := r.programs[p]; !ok {
		return
	}
	delete(r.programs, p)
	if r.program == uint32(p) {
		r.program = 0
	}
	gl.DeleteProgram(uint32(p))
}

func (r *Renderer) CurrentProgram() vbo.Program {
	return vbo.Program(r.program)
}

func (r *Renderer) UseProgram(p vbo.Program) {
	if uint32(p) != r.program {
		r.program = uint32(p)
		gl.UseProgram(r.program)
	}
}

func (r *Renderer) UniformLocation(p vbo.Program, name string) int32 {
	s, ok := r.programs[p]
	if !ok {
		return -1
	}
	loc, ok := s.u[name]
	if !ok {
		s.RegisterUniforms(name)
		loc = s.u[name]
	}
	return loc
}

// SetUniform sets a uniform of the program in use.
func (r *Renderer) SetUniform(loc int32, v vbo.UniformValue) {
	switch v := v.(type) {
	case vbo.UniformInt:
		gl.Uniform1i(loc, int32(v))
	case vbo.UniformFloat:
		gl.Uniform1f(loc, float32(v))
	case vbo.UniformVec2:
		gl.Uniform2f(loc, v[0], v[1])
	case vbo.UniformVec3:
		gl.Uniform3f(loc, v[0], v[1], v[2])
	case vbo.UniformVec4:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case vbo.UniformMat3:
		m := mgl32.Mat3(v)
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	case vbo.UniformMat4:
		m := mgl32.Mat4(v)
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}
