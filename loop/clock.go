package loop

import "time"

// Clock abstracts wall-clock time so that frame pacing can be tested
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

type systemClock struct {
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func NewSystemClock() Clock {
	return systemClock{}
}
