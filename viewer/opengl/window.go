package opengl

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	// ErrContextInit is returned when GLFW itself cannot be initialized
	ErrContextInit = errors.New("failed to initialize GLFW")
	// ErrDeviceInit is returned when the OpenGL function loader fails
	ErrDeviceInit = errors.New("failed to initialize OpenGL")
	// ErrWindowCreation is returned when no window with a 3.3 core context can be opened
	ErrWindowCreation = errors.New("failed to create window")
)

// WindowOptions configures the main window
type WindowOptions struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window is the GLFW window owning the OpenGL context. Pressing Escape sets
// the process-wide exit flag.
type Window struct {
	w        *glfw.Window
	exit     *atomic.Bool
	onResize []func(width, height int)
}

// OpenWindow initializes GLFW, opens the window and makes its context
// current on the calling thread, which must be locked to its OS thread.
func OpenWindow(ctx context.Context, o WindowOptions, exit *atomic.Bool) (*Window, error) {
	logger := logging.From(ctx)
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextInit, err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := o.Width, o.Height
	var monitor *glfw.Monitor
	if o.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
	}
	w, err := glfw.CreateWindow(width, height, o.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}
	w.MakeContextCurrent()
	if o.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win := &Window{w: w, exit: exit}
	w.SetKeyCallback(win.onKey)
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, f := range win.onResize {
			f(width, height)
		}
	})
	logger.Info("Window opened",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("fullscreen", o.Fullscreen))
	return win, nil
}

func (win *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		win.exit.Store(true)
	}
}

// OnResize registers f to be called with the new framebuffer size
func (win *Window) OnResize(f func(width, height int)) {
	win.onResize = append(win.onResize, f)
}

func (win *Window) FramebufferSize() (int, int) {
	return win.w.GetFramebufferSize()
}

func (win *Window) ShouldClose() bool {
	return win.w.ShouldClose()
}

// QuitRequested reports whether the quit key was pressed
func (win *Window) QuitRequested() bool {
	return win.w.GetKey(glfw.KeyEscape) == glfw.Press
}

func (win *Window) SwapBuffers() {
	win.w.SwapBuffers()
}

func (win *Window) PollEvents() {
	glfw.PollEvents()
}

// Close destroys the window and terminates GLFW
func (win *Window) Close() {
	win.w.Destroy()
	glfw.Terminate()
}
