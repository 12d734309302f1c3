package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedData is returned when uploading buffer data of an unknown element type
	ErrUnsupportedData = errors.New("unsupported buffer data")
)

// CompileError reports a shader stage that failed to compile
type CompileError struct {
	Stage Stage
	Path  string
	Log   string
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
	}
	return fmt.Sprintf("failed to compile %s shader %s: %s", e.Stage, e.Path, e.Log)
}

// LinkError reports a program that failed to link
type LinkError struct {
	VertexPath   string
	FragmentPath string
	Log          string
}

func (e *LinkError) Error() string {
	if e.VertexPath == "" && e.FragmentPath == "" {
		return fmt.Sprintf("failed to link program: %s", e.Log)
	}
	return fmt.Sprintf("failed to link program (%s, %s): %s", e.VertexPath, e.FragmentPath, e.Log)
}

// DeviceError is a pending error reported by the device after a frame
type DeviceError struct {
	Code uint32
}

func (e DeviceError) Error() string {
	return fmt.Sprintf("device error 0x%04x", e.Code)
}
