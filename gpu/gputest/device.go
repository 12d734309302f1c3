// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"image"
	"strings"

	"bitbucket.org/kleinnic74/dotto/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute is a recorded vertex attribute configuration
type Attribute struct {
	VertexArray gpu.VertexArrayID
	Index       uint32
	Size        int32
	Stride      int32
	Offset      int32
}

// Device records every call made to it. Ids are allocated from a single
// counter so that no two objects share an id.
type Device struct {
	// FailCompile marks sources containing this text as invalid
	FailCompile string
	// FailLink makes every link fail
	FailLink bool
	// PendingError is returned (once) by Error
	PendingError uint32

	Calls      []string
	Sources    map[gpu.ShaderID]string
	Programs   map[gpu.ProgramID][]gpu.ShaderID
	Textures   map[gpu.TextureID]image.Rectangle
	Buffers    map[gpu.BufferID]interface{}
	BufferVAO  map[gpu.BufferID]gpu.VertexArrayID
	Attributes []Attribute
	Uniforms   map[string]mgl32.Mat4
	Deleted    []gpu.Handle
	Draws      []int32
	Clears     int

	next      uint32
	program   gpu.ProgramID
	vao       gpu.VertexArrayID
	locations map[int32]string
}

func NewDevice() *Device {
	return &Device{
		Sources:   make(map[gpu.ShaderID]string),
		Programs:  make(map[gpu.ProgramID][]gpu.ShaderID),
		Textures:  make(map[gpu.TextureID]image.Rectangle),
		Buffers:   make(map[gpu.BufferID]interface{}),
		BufferVAO: make(map[gpu.BufferID]gpu.VertexArrayID),
		Uniforms:  make(map[string]mgl32.Mat4),
		locations: make(map[int32]string),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Count returns how many recorded calls start with the given prefix
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (gpu.ShaderID, error) {
	d.record("CompileShader(%s)", stage)
	if d.FailCompile != "" && strings.Contains(source, d.FailCompile) {
		return 0, &gpu.CompileError{Stage: stage, Log: "syntax error"}
	}
	id := gpu.ShaderID(d.id())
	d.Sources[id] = source
	return id, nil
}

func (d *Device) DeleteShader(id gpu.ShaderID) {
	d.record("DeleteShader(%d)", id)
	d.Deleted = append(d.Deleted, gpu.Handle{Kind: gpu.ShaderKind, ID: uint32(id)})
}

func (d *Device) LinkProgram(shaders ...gpu.ShaderID) (gpu.ProgramID, error) {
	d.record("LinkProgram(%v)", shaders)
	if d.FailLink {
		return 0, &gpu.LinkError{Log: "link failed"}
	}
	id := gpu.ProgramID(d.id())
	d.Programs[id] = shaders
	return id, nil
}

func (d *Device) DeleteProgram(id gpu.ProgramID) {
	d.record("DeleteProgram(%d)", id)
	d.Deleted = append(d.Deleted, gpu.ProgramHandle(id))
}

func (d *Device) UseProgram(id gpu.ProgramID) {
	d.record("UseProgram(%d)", id)
	d.program = id
}

func (d *Device) UniformLocation(p gpu.ProgramID, name string) int32 {
	loc := int32(len(d.locations))
	d.locations[loc] = name
	return loc
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	name := d.locations[location]
	d.record("UniformMatrix4(%s)", name)
	d.Uniforms[name] = m
}

func (d *Device) UniformInt(location int32, v int32) {
	d.record("UniformInt(%s,%d)", d.locations[location], v)
}

func (d *Device) CreateTexture(img *image.RGBA) (gpu.TextureID, error) {
	id := gpu.TextureID(d.id())
	d.record("CreateTexture(%d)", id)
	d.Textures[id] = img.Bounds()
	return id, nil
}

func (d *Device) DeleteTexture(id gpu.TextureID) {
	d.record("DeleteTexture(%d)", id)
	d.Deleted = append(d.Deleted, gpu.TextureHandle(id))
}

func (d *Device) BindTexture(unit uint32, id gpu.TextureID) {
	d.record("BindTexture(%d,%d)", unit, id)
}

func (d *Device) CreateVertexArray() gpu.VertexArrayID {
	id := gpu.VertexArrayID(d.id())
	d.record("CreateVertexArray(%d)", id)
	return id
}

func (d *Device) BindVertexArray(id gpu.VertexArrayID) {
	d.record("BindVertexArray(%d)", id)
	d.vao = id
}

func (d *Device) DeleteVertexArray(id gpu.VertexArrayID) {
	d.record("DeleteVertexArray(%d)", id)
	d.Deleted = append(d.Deleted, gpu.VertexArrayHandle(id))
}

func (d *Device) CreateBuffer(target gpu.Target) gpu.BufferID {
	id := gpu.BufferID(d.id())
	d.record("CreateBuffer(%d)", id)
	return id
}

func (d *Device) BufferData(target gpu.Target, id gpu.BufferID, data interface{}) error {
	switch data.(type) {
	case []float32, []uint32:
	default:
		return gpu.ErrUnsupportedData
	}
	d.record("BufferData(%d)", id)
	d.Buffers[id] = data
	d.BufferVAO[id] = d.vao
	return nil
}

func (d *Device) DeleteBuffer(id gpu.BufferID) {
	d.record("DeleteBuffer(%d)", id)
	d.Deleted = append(d.Deleted, gpu.BufferHandle(id))
}

func (d *Device) VertexAttribute(index uint32, size, stride, offset int32) {
	d.record("VertexAttribute(%d)", index)
	d.Attributes = append(d.Attributes, Attribute{d.vao, index, size, stride, offset})
}

func (d *Device) Clear() {
	d.record("Clear")
	d.Clears++
}

func (d *Device) DrawElements(count int32) {
	d.record("DrawElements(%d)", count)
	d.Draws = append(d.Draws, count)
}

func (d *Device) Error() error {
	if d.PendingError == 0 {
		return nil
	}
	code := d.PendingError
	d.PendingError = 0
	return gpu.DeviceError{Code: code}
}
