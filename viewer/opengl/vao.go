package opengl

import (
	"bitbucket.org/kleinnic74/dotto/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
)

var targets = map[gpu.Target]uint32{
	gpu.ArrayBuffer:        gl.ARRAY_BUFFER,
	gpu.ElementArrayBuffer: gl.ELEMENT_ARRAY_BUFFER,
}

func (Device) CreateVertexArray() gpu.VertexArrayID {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return gpu.VertexArrayID(vao)
}

func (Device) BindVertexArray(id gpu.VertexArrayID) {
	gl.BindVertexArray(uint32(id))
}

func (Device) DeleteVertexArray(id gpu.VertexArrayID) {
	vao := uint32(id)
	gl.DeleteVertexArrays(1, &vao)
}

func (Device) CreateBuffer(target gpu.Target) gpu.BufferID {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return gpu.BufferID(vbo)
}

// BufferData binds the buffer to its target and uploads data. Element array
// bindings are recorded in the currently bound vertex array.
func (Device) BufferData(target gpu.Target, id gpu.BufferID, data interface{}) error {
	var size int
	switch d := data.(type) {
	case []float32:
		size = 4 * len(d)
	case []uint32:
		size = 4 * len(d)
	default:
		return gpu.ErrUnsupportedData
	}
	t := targets[target]
	gl.BindBuffer(t, uint32(id))
	if size == 0 {
		gl.BufferData(t, 0, nil, gl.STATIC_DRAW)
		return nil
	}
	gl.BufferData(t, size, gl.Ptr(data), gl.STATIC_DRAW)
	return nil
}

func (Device) DeleteBuffer(id gpu.BufferID) {
	vbo := uint32(id)
	gl.DeleteBuffers(1, &vbo)
}

// VertexAttribute describes a float attribute of the bound array buffer
func (Device) VertexAttribute(index uint32, size, stride, offset int32) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride, gl.PtrOffset(int(offset)))
}
