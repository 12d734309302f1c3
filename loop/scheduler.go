package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bitbucket.org/kleinnic74/dotto/logging"
	"bitbucket.org/kleinnic74/dotto/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// DefaultTimestep is the target duration of one frame, about 62.5 Hz
const DefaultTimestep = 16 * time.Millisecond

// ErrRuntimeGPU wraps any device failure that ended the loop
var ErrRuntimeGPU = errors.New("runtime gpu failure")

// State of the scheduler
type State int32

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Window is the presentation and input side of the graphics context
type Window interface {
	ShouldClose() bool
	QuitRequested() bool
	SwapBuffers()
	PollEvents()
}

// Renderer is the part of the device the loop drives directly
type Renderer interface {
	Clear()
	Error() error
}

// Drawables is the live set rendered every frame
type Drawables interface {
	Each(func(scene.Drawable) error) error
	Len() int
}

// Camera provides the matrices handed to every drawable
type Camera interface {
	Projection() mgl32.Mat4
	View() mgl32.Mat4
}

// UpdateFunc runs at the end of every frame with the frame's full duration
type UpdateFunc func(ctx context.Context, delta time.Duration)

// TeardownFunc releases a subsystem once the loop has stopped
type TeardownFunc func(ctx context.Context)

type teardown struct {
	name string
	f    TeardownFunc
}

// Stats is a snapshot of the loop's counters
type Stats struct {
	State     string        `json:"state"`
	Frames    uint64        `json:"frames"`
	Overruns  uint64        `json:"overruns"`
	LastDelta time.Duration `json:"lastDelta"`
	LastWork  time.Duration `json:"lastWork"`
	FPS       float32       `json:"fps"`
	Drawables int           `json:"drawables"`
}

// Options for the scheduler
type Options struct {
	Timestep time.Duration
	Clock    Clock
}

// Scheduler is the fixed-timestep frame loop. Everything but Stop and Stats
// must be called from the thread owning the graphics context.
type Scheduler struct {
	timestep  time.Duration
	clock     Clock
	window    Window
	renderer  Renderer
	drawables Drawables
	camera    Camera
	exit      *atomic.Bool

	state     *atomic.Int32
	updates   []UpdateFunc
	teardowns []teardown
	stopOnce  sync.Once
	counter   *FrameCounter

	mu    sync.Mutex
	stats Stats
}

// NewScheduler creates a scheduler in the Running state. exit is the
// process-wide quit flag; any subsystem may set it.
func NewScheduler(o Options, window Window, renderer Renderer, drawables Drawables, camera Camera, exit *atomic.Bool) *Scheduler {
	if o.Timestep <= 0 {
		o.Timestep = DefaultTimestep
	}
	if o.Clock == nil {
		o.Clock = NewSystemClock()
	}
	if exit == nil {
		exit = atomic.NewBool(false)
	}
	s := &Scheduler{
		timestep:  o.Timestep,
		clock:     o.Clock,
		window:    window,
		renderer:  renderer,
		drawables: drawables,
		camera:    camera,
		exit:      exit,
		state:     atomic.NewInt32(int32(Running)),
	}
	s.counter = NewFrameCounter(o.Clock.Now(), s.updateFps)
	return s
}

// OnUpdate registers f to run after every frame
func (s *Scheduler) OnUpdate(f UpdateFunc) {
	s.updates = append(s.updates, f)
}

// OnStop registers a teardown step. Steps run once, in registration order.
func (s *Scheduler) OnStop(name string, f TeardownFunc) {
	s.teardowns = append(s.teardowns, teardown{name, f})
}

// Stop requests the loop to end at the next frame boundary
func (s *Scheduler) Stop() {
	s.exit.Store(true)
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) Timestep() time.Duration {
	return s.timestep
}

// Stats returns a snapshot of the frame counters; safe from any goroutine
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.State = s.State().String()
	return st
}

func (s *Scheduler) shouldStop(ctx context.Context) (bool, string) {
	switch {
	case ctx.Err() != nil:
		return true, "context done"
	case s.exit.Load():
		return true, "exit requested"
	case s.window.ShouldClose():
		return true, "window closed"
	case s.window.QuitRequested():
		return true, "quit key"
	}
	return false, ""
}

// Run renders frames until a stop condition is seen at a frame boundary,
// then tears down the registered subsystems. A device failure ends the loop
// with an error wrapping ErrRuntimeGPU.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	logger, ctx := logging.SubFrom(ctx, "loop")
	logger.Info("Entering frame loop", zap.Duration("timestep", s.timestep))
	defer s.teardown(ctx)
	for {
		if stop, reason := s.shouldStop(ctx); stop {
			logger.Info("Leaving frame loop", zap.String("reason", reason))
			return nil
		}
		if _, err = s.Tick(ctx); err != nil {
			logger.Error("Frame failed", zap.Error(err))
			return err
		}
	}
}

// Tick renders a single frame and paces it to the timestep. It returns the
// full frame duration: render work plus the pacing sleep.
func (s *Scheduler) Tick(ctx context.Context) (time.Duration, error) {
	start := s.clock.Now()
	s.renderer.Clear()
	projection, view := s.camera.Projection(), s.camera.View()
	err := s.drawables.Each(func(d scene.Drawable) error {
		return d.Render(projection, view)
	})
	if err == nil {
		err = s.renderer.Error()
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRuntimeGPU, err)
	}
	s.window.SwapBuffers()
	s.window.PollEvents()

	end := s.clock.Now()
	elapsed := end.Sub(start)
	wait := SleepDuration(s.timestep, elapsed)
	if wait > 0 {
		s.clock.Sleep(wait)
	}
	delta := elapsed + wait

	s.record(elapsed, delta)
	s.counter.Frame(end.Add(wait))
	for _, u := range s.updates {
		u(ctx, delta)
	}
	return delta, nil
}

func (s *Scheduler) record(work, delta time.Duration) {
	n := s.drawables.Len()
	framesTotal.Inc()
	frameRenderSeconds.Observe(work.Seconds())
	liveDrawables.Set(float64(n))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Frames++
	if work > s.timestep {
		frameOverruns.Inc()
		s.stats.Overruns++
	}
	s.stats.LastWork = work
	s.stats.LastDelta = delta
	s.stats.Drawables = n
}

func (s *Scheduler) updateFps(fps float32) {
	fpsGauge.Set(float64(fps))
	s.mu.Lock()
	s.stats.FPS = fps
	s.mu.Unlock()
}

func (s *Scheduler) teardown(ctx context.Context) {
	s.stopOnce.Do(func() {
		s.state.Store(int32(Stopped))
		logger := logging.From(ctx)
		for _, t := range s.teardowns {
			logger.Info("Cleaning up", zap.String("subsystem", t.name))
			t.f(ctx)
		}
	})
}
