// Package audio opens the speaker at startup and closes it on shutdown.
// Playback runs on the speaker's own thread; the render thread only ever
// touches decoder state through Init, Play and Clean.
package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

// Options for the audio device
type Options struct {
	Disabled   bool          `json:"disabled"`
	SampleRate int           `json:"sampleRate"`
	Buffer     time.Duration `json:"buffer"`
}

func DefaultOptions() Options {
	return Options{
		SampleRate: 44100,
		Buffer:     100 * time.Millisecond,
	}
}

// Opener opens a file below the asset root
type Opener interface {
	Open(string) (io.ReadCloser, error)
}

// Audio is the speaker together with whatever is playing on it
type Audio struct {
	opts    Options
	rate    beep.SampleRate
	open    bool
	playing []beep.StreamSeekCloser
}

func New(o Options) *Audio {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultOptions().SampleRate
	}
	if o.Buffer <= 0 {
		o.Buffer = DefaultOptions().Buffer
	}
	return &Audio{opts: o, rate: beep.SampleRate(o.SampleRate)}
}

// Init opens the speaker. A disabled audio subsystem succeeds without a device.
func (a *Audio) Init(ctx context.Context) error {
	logger := logging.From(ctx)
	if a.opts.Disabled {
		logger.Info("Audio disabled")
		return nil
	}
	if err := speaker.Init(a.rate, a.rate.N(a.opts.Buffer)); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	a.open = true
	logger.Info("Audio initialized", zap.Int("sampleRate", a.opts.SampleRate), zap.Duration("buffer", a.opts.Buffer))
	return nil
}

// Play decodes a WAV file and loops it until Clean
func (a *Audio) Play(ctx context.Context, fs Opener, path string) error {
	if !a.open {
		return nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	var s beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != a.rate {
		s = beep.Resample(4, format.SampleRate, a.rate, s)
	}
	a.playing = append(a.playing, streamer)
	speaker.Play(s)
	logging.From(ctx).Info("Playing", zap.String("path", path))
	return nil
}

// Clean stops playback, releases the decoders and closes the speaker
func (a *Audio) Clean(ctx context.Context) {
	if !a.open {
		return
	}
	speaker.Clear()
	speaker.Lock()
	for _, s := range a.playing {
		if err := s.Close(); err != nil {
			logging.From(ctx).Warn("Failed to close decoder", zap.Error(err))
		}
	}
	a.playing = nil
	speaker.Unlock()
	speaker.Close()
	a.open = false
	logging.From(ctx).Info("Audio closed")
}

// Enabled reports whether a speaker is open
func (a *Audio) Enabled() bool {
	return a.open
}
