// Package gpu describes the capability set the render core needs from a
// graphics device, independent of the concrete API behind it.
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderID is a compiled shader stage
type ShaderID uint32

// ProgramID is a linked shader program
type ProgramID uint32

// TextureID is a 2D texture
type TextureID uint32

// BufferID is a device side buffer object
type BufferID uint32

// VertexArrayID is a vertex array object
type VertexArrayID uint32

// Stage identifies a shader stage
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Target is the binding point of a buffer
type Target int

const (
	ArrayBuffer Target = iota
	ElementArrayBuffer
)

// Device is the set of graphics operations used by the render core. All
// calls must happen on the thread owning the graphics context.
type Device interface {
	// CompileShader compiles a single stage. Failures are reported as *CompileError.
	CompileShader(stage Stage, source string) (ShaderID, error)
	DeleteShader(ShaderID)
	// LinkProgram links the given stages. Failures are reported as *LinkError.
	LinkProgram(shaders ...ShaderID) (ProgramID, error)
	DeleteProgram(ProgramID)
	UseProgram(ProgramID)
	UniformLocation(p ProgramID, name string) int32
	UniformMatrix4(location int32, m mgl32.Mat4)
	UniformInt(location int32, v int32)

	CreateTexture(img *image.RGBA) (TextureID, error)
	DeleteTexture(TextureID)
	BindTexture(unit uint32, t TextureID)

	CreateVertexArray() VertexArrayID
	BindVertexArray(VertexArrayID)
	DeleteVertexArray(VertexArrayID)

	CreateBuffer(target Target) BufferID
	// BufferData uploads data, which is either []float32 or []uint32, into
	// the given buffer.
	BufferData(target Target, b BufferID, data interface{}) error
	DeleteBuffer(BufferID)
	VertexAttribute(index uint32, size, stride, offset int32)

	Clear()
	DrawElements(count int32)
	// Error returns the first pending device error, if any.
	Error() error
}
