// dotto opens a window and renders the configured scene at a fixed timestep
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"bitbucket.org/kleinnic74/dotto/app"
	"bitbucket.org/kleinnic74/dotto/consts"
	"bitbucket.org/kleinnic74/dotto/logging"
	"go.uber.org/zap"
)

var (
	configFile string
	assetRoot  string
	width      int
	height     int
	fullscreen bool
	vsync      bool
	timestepMs int
	debugAddr  string
	noAudio    bool
	logDebug   bool
)

func init() {
	// GLFW and OpenGL calls must all happen on the main thread
	runtime.LockOSThread()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&configFile, "config", "config.json", "Configuration file, ignored if missing")
	flag.StringVar(&assetRoot, "assets", "", "Asset root directory")
	flag.IntVar(&width, "width", 0, "Window width")
	flag.IntVar(&height, "height", 0, "Window height")
	flag.BoolVar(&fullscreen, "fullscreen", false, "Open fullscreen on the primary monitor")
	flag.BoolVar(&vsync, "vsync", false, "Synchronize buffer swaps with the display")
	flag.IntVar(&timestepMs, "timestep", 0, "Frame timestep in milliseconds")
	flag.StringVar(&debugAddr, "debug", "", "Address of the debug HTTP server, disabled if empty")
	flag.BoolVar(&noAudio, "no-audio", false, "Disable audio output")
	flag.BoolVar(&logDebug, "log-debug", false, "Log at debug level")
}

// applyFlags overrides the configuration with the flags given on the command line
func applyFlags(o *app.Options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "assets":
			o.AssetRoot = assetRoot
		case "width":
			o.Width = width
		case "height":
			o.Height = height
		case "fullscreen":
			o.Fullscreen = fullscreen
		case "vsync":
			o.VSync = vsync
		case "timestep":
			o.TimestepMs = timestepMs
		case "debug":
			o.DebugAddr = debugAddr
		case "no-audio":
			o.Audio.Disabled = noAudio
		case "log-debug":
			o.Logging.Debug = logDebug
		}
	})
}

func main() {
	flag.Parse()

	o := app.DefaultOptions()
	if err := app.LoadOptions(configFile, &o); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(int(consts.ExitConfig))
	}
	applyFlags(&o)
	if err := o.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(int(consts.ExitConfig))
	}

	if err := logging.Init(o.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot initialize logging: %s\n", err)
		os.Exit(int(consts.ExitConfig))
	}
	logger := logging.From(context.Background())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logging.Context(ctx, logger)

	a, err := app.NewApp(ctx, o, glPlatform{})
	if err != nil {
		code := app.ExitCode(err)
		logger.Error("Startup failed", zap.Stringer("exit", code), zap.Error(err))
		logging.Clean()
		cancel()
		os.Exit(int(code))
	}
	err = a.Run(ctx)
	code := app.ExitCode(err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s (%s)\n", err, code)
	}
	cancel()
	os.Exit(int(code))
}
