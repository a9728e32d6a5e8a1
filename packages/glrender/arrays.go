package glrender

import (
	"encoding/binary"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/ikemen-engine/glvbo/packages/vbo"
	"golang.org/x/mobile/exp/f32"
)

// vertexArray is a VAO with one buffer per vbo channel, created on first
// upload.
type vertexArray struct {
	vao     uint32
	buffers [vbo.NumChannels]uint32
}

func (r *Renderer) NewVertexArray() vbo.VertexArray {
	va := &vertexArray{}
	gl.GenVertexArrays(1, &va.vao)
	r.nextVA++
	r.arrays[r.nextVA] = va
	return r.nextVA
}

func (r *Renderer) DeleteVertexArray(id vbo.VertexArray) {
	va, ok := r.arrays[id]
	if !ok {
		return
	}
	delete(r.arrays, id)
	for _, b := range va.buffers {
		if b != 0 {
			gl.DeleteBuffers(1, &b)
		}
	}
	if r.vao == va.vao {
		r.vao = 0
		gl.BindVertexArray(0)
	}
	gl.DeleteVertexArrays(1, &va.vao)
}

func (r *Renderer) BindVertexArray(id vbo.VertexArray) {
	var vao uint32
	if va, ok := r.arrays[id]; ok {
		vao = va.vao
	}
	if vao != r.vao {
		r.vao = vao
		gl.BindVertexArray(vao)
	}
}

// Upload replaces the channel buffer of id and points the channel's
// attribute location at it. The vertex array must be bound.
func (r *Renderer) Upload(id vbo.VertexArray, ch vbo.Channel, values []float32) {
	va, ok := r.arrays[id]
	if !ok || len(values) == 0 {
		return
	}
	if va.buffers[ch] == 0 {
		gl.GenBuffers(1, &va.buffers[ch])
	}
	data := f32.Bytes(binary.LittleEndian, values...)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.buffers[ch])
	gl.BufferData(gl.ARRAY_BUFFER, len(data), unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(uint32(ch), int32(ch.Components()), gl.FLOAT, false, 0, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Renderer) EnableAttribute(id vbo.VertexArray, ch vbo.Channel) {
	if va, ok := r.arrays[id]; ok && va.buffers[ch] != 0 {
		gl.EnableVertexAttribArray(uint32(ch))
	}
}

func (r *Renderer) DisableAttribute(ch vbo.Channel) {
	gl.DisableVertexAttribArray(uint32(ch))
}
