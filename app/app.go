package app

import (
	"context"
	"fmt"

	"bitbucket.org/kleinnic74/dotto/assets"
	"bitbucket.org/kleinnic74/dotto/audio"
	"bitbucket.org/kleinnic74/dotto/consts"
	"bitbucket.org/kleinnic74/dotto/filesystem"
	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/logging"
	"bitbucket.org/kleinnic74/dotto/loop"
	"bitbucket.org/kleinnic74/dotto/rest"
	"bitbucket.org/kleinnic74/dotto/scene"
	"bitbucket.org/kleinnic74/dotto/view"
	"github.com/kleinnic74/fflags"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// WindowOptions is what the platform needs to open the main window
type WindowOptions struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window is the platform window holding the graphics context
type Window interface {
	loop.Window
	FramebufferSize() (int, int)
	OnResize(func(width, height int))
	Close()
}

// Platform opens the window and the graphics device. Failures must be
// returned as *StartupError carrying the matching exit code.
type Platform interface {
	Open(ctx context.Context, o WindowOptions, exit *atomic.Bool) (Window, gpu.Device, error)
}

// App is the process-wide state: the live registry, the resources, the
// default program (through the resolver) and the exit flag. Subsystems get
// what they need passed in; nothing here is global.
type App struct {
	exit      *atomic.Bool
	window    Window
	dev       gpu.Device
	resources *gpu.Resources
	registry  *scene.Registry
	assets    filesystem.Assets
	resolver  *assets.Resolver
	camera    *scene.Camera
	view      *view.View
	audio     *audio.Audio
	scheduler *loop.Scheduler
	debug     *rest.DebugServer

	shutdownHandlers shutdownHandlers
}

type shutdownHandler func(context.Context, *App)

type shutdownHandlers struct {
	h []shutdownHandler
}

func (hdls *shutdownHandlers) Add(h shutdownHandler) {
	hdls.h = append(hdls.h, h)
}

func (hdls shutdownHandlers) Execute(ctx context.Context, a *App) {
	for i := len(hdls.h) - 1; i >= 0; i-- {
		hdls.h[i](ctx, a)
	}
}

// NewApp initializes every subsystem and loads the scene. If anything
// fails, whatever was initialized so far is torn down again.
func NewApp(ctx context.Context, o Options, platform Platform) (_ *App, err error) {
	logger, ctx := logging.SubFrom(ctx, "app")

	a := &App{exit: atomic.NewBool(false)}
	defer func() {
		if err != nil {
			a.shutdownHandlers.Execute(ctx, a)
		}
	}()

	a.window, a.dev, err = platform.Open(ctx, WindowOptions{
		Title:      "dotto",
		Width:      o.Width,
		Height:     o.Height,
		Fullscreen: o.Fullscreen,
		VSync:      o.VSync,
	}, a.exit)
	if err != nil {
		return nil, startupError(consts.ExitWindowCreation, err)
	}
	a.shutdownHandlers.Add(func(ctx context.Context, a *App) {
		a.window.Close()
		logging.From(ctx).Info("Closed window")
	})

	a.resources = gpu.NewResources(a.dev)
	a.shutdownHandlers.Add(func(ctx context.Context, a *App) {
		n := a.resources.ReleaseAll()
		logging.From(ctx).Info("Released device resources", zap.Int("count", n))
	})
	a.registry = scene.NewRegistry(a.resources)

	if a.assets, err = filesystem.NewAssets(o.AssetRoot); err != nil {
		return nil, startupError(consts.ExitAssets, fmt.Errorf("asset root: %w", err))
	}
	if a.resolver, err = assets.NewResolver(ctx, a.dev, a.assets, a.resources, o.Assets); err != nil {
		return nil, startupError(consts.ExitAssets, err)
	}

	w, h := a.window.FramebufferSize()
	a.camera = scene.NewPerspectiveCamera(w, h)
	a.window.OnResize(a.camera.Resize)

	a.view = view.New(a.resolver, a.registry)
	a.shutdownHandlers.Add(func(ctx context.Context, a *App) {
		a.view.Clean(ctx)
	})

	a.audio = audio.New(o.Audio)
	if err = a.audio.Init(ctx); err != nil {
		return nil, startupError(consts.ExitAudioInit, err)
	}
	a.shutdownHandlers.Add(func(ctx context.Context, a *App) {
		a.audio.Clean(ctx)
	})

	if err = a.view.Load(ctx, o.Scene); err != nil {
		return nil, startupError(consts.ExitAssets, err)
	}
	if o.Music != "" {
		if err := a.audio.Play(ctx, a.assets, o.Music); err != nil {
			logger.Warn("Could not play music", zap.String("path", o.Music), zap.Error(err))
		}
	}

	a.scheduler = loop.NewScheduler(loop.Options{Timestep: o.Timestep()}, a.window, a.dev, a.registry, a.camera, a.exit)

	if o.DebugAddr != "" {
		if err = fflags.IfEnabled(fflags.Define("debug.http"), func() error {
			a.debug = rest.NewDebugServer(o.DebugAddr, a.scheduler,
				rest.NewMetricsHandler(a.scheduler),
				rest.NewLogsHandler(),
				rest.NewFramesHandler(a.scheduler))
			return a.debug.Start(ctx)
		}); err != nil {
			return nil, startupError(consts.ExitConfig, fmt.Errorf("debug server: %w", err))
		}
	}

	a.registerTeardown()
	logger.Info("Initialized", zap.Int("drawables", a.registry.Len()), zap.Int("resources", a.resources.Len()))
	return a, nil
}

// registerTeardown hands cleanup over to the scheduler: scene and device
// resources first, then audio, then logging.
func (a *App) registerTeardown() {
	a.scheduler.OnStop("view", func(ctx context.Context) {
		a.view.Clean(ctx)
		n := a.resources.ReleaseAll()
		logging.From(ctx).Info("Released device resources", zap.Int("count", n))
		a.window.Close()
	})
	a.scheduler.OnStop("audio", a.audio.Clean)
	if a.debug != nil {
		a.scheduler.OnStop("debug", a.debug.Shutdown)
	}
	a.scheduler.OnStop("logging", func(context.Context) {
		logging.Clean()
	})
}

// Run enters the frame loop and returns once it stopped and everything has
// been torn down
func (a *App) Run(ctx context.Context) error {
	return a.scheduler.Run(ctx)
}

// Stop asks the frame loop to end at the next frame boundary; safe from any goroutine
func (a *App) Stop() {
	a.exit.Store(true)
}

func (a *App) Registry() *scene.Registry {
	return a.registry
}

func (a *App) Resolver() *assets.Resolver {
	return a.resolver
}

func (a *App) Scheduler() *loop.Scheduler {
	return a.scheduler
}

func (a *App) Resources() *gpu.Resources {
	return a.resources
}
