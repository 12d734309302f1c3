package gpu_test

import (
	"testing"

	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/gpu/gputest"
	"github.com/stretchr/testify/assert"
)

func TestReleaseAllInReverseOrder(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	handles := []gpu.Handle{
		res.Track(gpu.ProgramHandle(1)),
		res.Track(gpu.TextureHandle(2)),
		res.Track(gpu.BufferHandle(3)),
		res.Track(gpu.VertexArrayHandle(4)),
	}
	assert.Equal(t, 4, res.Len())

	assert.Equal(t, 4, res.ReleaseAll())
	assert.Equal(t, 0, res.Len())
	expected := []gpu.Handle{handles[3], handles[2], handles[1], handles[0]}
	assert.Equal(t, expected, dev.Deleted)
}

func TestReleaseOnlyOnce(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	h := res.Track(gpu.TextureHandle(7))
	res.Track(h)
	assert.Equal(t, 1, res.Len(), "tracking twice must not duplicate ownership")

	assert.True(t, res.Release(h))
	assert.False(t, res.Release(h))
	assert.False(t, res.Tracked(h))
	assert.Equal(t, 0, res.ReleaseAll())
	assert.Equal(t, []gpu.Handle{h}, dev.Deleted)
}

func TestReleaseUntracked(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	assert.False(t, res.Release(gpu.ProgramHandle(3)))
	assert.Empty(t, dev.Deleted)
}

func TestCompileErrorNamesStage(t *testing.T) {
	err := &gpu.CompileError{Stage: gpu.FragmentStage, Path: "bundle/shader.frag", Log: "0:1 bad token"}
	assert.Contains(t, err.Error(), "fragment")
	assert.Contains(t, err.Error(), "bundle/shader.frag")
	assert.Contains(t, err.Error(), "0:1 bad token")
}
