// Package opengl implements the render core's device and window on top of
// OpenGL 3.3 core and GLFW.
package opengl

import (
	"context"
	"fmt"

	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/go-gl/gl/v3.3-core/gl"
	"go.uber.org/zap"
)

// Device issues gpu.Device calls against the current OpenGL context
type Device struct{}

var _ gpu.Device = Device{}

// InitDevice loads the OpenGL function pointers for the current context.
// It must run after the window made its context current.
func InitDevice(ctx context.Context) (Device, error) {
	if err := gl.Init(); err != nil {
		return Device{}, fmt.Errorf("%w: %v", ErrDeviceInit, err)
	}
	logging.From(ctx).Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)
	return Device{}, nil
}

func (Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

// Error returns the oldest pending OpenGL error and drains the rest
func (Device) Error() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return gpu.DeviceError{Code: code}
}

// Viewport resizes the drawing area to the framebuffer size
func (Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
