package loop

import (
	"time"
)

// Callback receives the measured frame rate about once per second
type Callback func(fps float32)

// FrameCounter measures the frame rate over intervals of at least a second
type FrameCounter struct {
	frames   int
	refTime  time.Time
	callback Callback
}

func NewFrameCounter(start time.Time, callback Callback) *FrameCounter {
	return &FrameCounter{
		refTime:  start,
		callback: callback,
	}
}

// Frame counts one frame ending at now
func (fc *FrameCounter) Frame(now time.Time) {
	fc.frames++
	delta := now.Sub(fc.refTime)
	if delta > time.Second {
		intervalMs := float32(delta.Nanoseconds()) / float32(time.Millisecond.Nanoseconds())
		fc.callback(float32(fc.frames) * 1000. / intervalMs)
		fc.refTime = now
		fc.frames = 0
	}
}

// SleepDuration returns how long to wait after a frame that took elapsed so
// that frames start every timestep. Overruns never produce negative waits.
func SleepDuration(timestep, elapsed time.Duration) time.Duration {
	if elapsed >= timestep {
		return 0
	}
	return timestep - elapsed
}
