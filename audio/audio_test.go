package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledAudioNeedsNoDevice(t *testing.T) {
	a := New(Options{Disabled: true})
	assert.NoError(t, a.Init(context.Background()))
	assert.False(t, a.Enabled())
	assert.NoError(t, a.Play(context.Background(), nil, "music.wav"))
	a.Clean(context.Background())
}

func TestDefaultsFillMissingOptions(t *testing.T) {
	a := New(Options{Disabled: true})
	assert.Equal(t, 44100, a.opts.SampleRate)
	assert.Equal(t, 100*time.Millisecond, a.opts.Buffer)
}
