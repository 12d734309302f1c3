package scene

import (
	"fmt"

	"bitbucket.org/kleinnic74/dotto/gpu"
)

// Layout describes the interleaved attributes of one vertex row, as the
// number of floats per attribute.
type Layout []int32

// Stride returns the number of floats per vertex row
func (l Layout) Stride() int32 {
	var s int32
	for _, n := range l {
		s += n
	}
	return s
}

// PositionUV is 3 floats of position followed by 2 floats of texture coordinates
var PositionUV = Layout{3, 2}

// Mesh is a renderable geometric unit: one vertex array, one vertex buffer
// and one index buffer, exclusively owned by one drawable.
type Mesh struct {
	layout   Layout
	array    gpu.VertexArrayID
	Vertices *Buffer[float32]
	Indices  *Buffer[uint32]
	uploaded bool
}

func NewMesh(layout Layout) *Mesh {
	return &Mesh{
		layout:   layout,
		Vertices: NewBuffer[float32](gpu.ArrayBuffer),
		Indices:  NewBuffer[uint32](gpu.ElementArrayBuffer),
	}
}

// Rows returns the number of vertex rows
func (m *Mesh) Rows() int {
	return m.Vertices.Len() / int(m.layout.Stride())
}

func (m *Mesh) validate() error {
	stride := int(m.layout.Stride())
	if stride == 0 || m.Vertices.Len()%stride != 0 {
		return fmt.Errorf("%w: %d floats, stride %d", ErrBadLayout, m.Vertices.Len(), stride)
	}
	rows := uint32(m.Rows())
	for i, idx := range m.Indices.Elements() {
		if idx >= rows {
			return fmt.Errorf("%w: index %d at %d, %d rows", ErrIndexOutOfRange, idx, i, rows)
		}
	}
	return nil
}

// Glify uploads both buffers. The vertex array is bound first so that the
// buffer and attribute configuration is recorded on it.
func (m *Mesh) Glify(dev gpu.Device) error {
	if m.uploaded {
		return ErrBufferUploaded
	}
	if err := m.validate(); err != nil {
		return err
	}
	m.array = dev.CreateVertexArray()
	dev.BindVertexArray(m.array)
	if err := m.Vertices.Glify(dev); err != nil {
		return err
	}
	if err := m.Indices.Glify(dev); err != nil {
		return err
	}
	stride := m.layout.Stride() * 4
	var offset int32
	for i, size := range m.layout {
		dev.VertexAttribute(uint32(i), size, stride, offset*4)
		offset += size
	}
	m.uploaded = true
	return nil
}

// Draw issues one indexed draw call over all indices
func (m *Mesh) Draw(dev gpu.Device) error {
	if !m.uploaded {
		return ErrMeshNotUploaded
	}
	dev.BindVertexArray(m.array)
	dev.DrawElements(int32(m.Indices.Len()))
	return nil
}

// Handles returns the device objects created by Glify
func (m *Mesh) Handles() []gpu.Handle {
	var h []gpu.Handle
	if m.array != 0 {
		h = append(h, gpu.VertexArrayHandle(m.array))
	}
	if m.Vertices.Uploaded() {
		h = append(h, gpu.BufferHandle(m.Vertices.ID()))
	}
	if m.Indices.Uploaded() {
		h = append(h, gpu.BufferHandle(m.Indices.ID()))
	}
	return h
}

func (m *Mesh) Uploaded() bool {
	return m.uploaded
}
