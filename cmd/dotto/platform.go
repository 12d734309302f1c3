package main

import (
	"context"
	"errors"

	"bitbucket.org/kleinnic74/dotto/app"
	"bitbucket.org/kleinnic74/dotto/consts"
	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/viewer/opengl"
	"go.uber.org/atomic"
)

// glPlatform opens a GLFW window and an OpenGL device on the calling thread
type glPlatform struct{}

func (glPlatform) Open(ctx context.Context, o app.WindowOptions, exit *atomic.Bool) (app.Window, gpu.Device, error) {
	win, err := opengl.OpenWindow(ctx, opengl.WindowOptions{
		Title:      o.Title,
		Width:      o.Width,
		Height:     o.Height,
		Fullscreen: o.Fullscreen,
		VSync:      o.VSync,
	}, exit)
	if err != nil {
		return nil, nil, &app.StartupError{Code: exitCodeOf(err), Err: err}
	}
	dev, err := opengl.InitDevice(ctx)
	if err != nil {
		win.Close()
		return nil, nil, &app.StartupError{Code: exitCodeOf(err), Err: err}
	}
	w, h := win.FramebufferSize()
	dev.Viewport(w, h)
	win.OnResize(dev.Viewport)
	return win, dev, nil
}

func exitCodeOf(err error) consts.ExitCode {
	switch {
	case errors.Is(err, opengl.ErrContextInit):
		return consts.ExitContextInit
	case errors.Is(err, opengl.ErrDeviceInit):
		return consts.ExitDeviceInit
	default:
		return consts.ExitWindowCreation
	}
}
