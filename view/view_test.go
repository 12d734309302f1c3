package view

import (
	"context"
	"fmt"
	"testing"

	"bitbucket.org/kleinnic74/dotto/assets"
	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/gpu/gputest"
	"bitbucket.org/kleinnic74/dotto/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	dev    *gputest.Device
	res    *gpu.Resources
	errors map[string]error
	next   gpu.TextureID
}

func (s *stubResolver) Resolve(_ context.Context, logical string) (*scene.Rect, error) {
	if err, found := s.errors[logical]; found {
		return nil, err
	}
	s.next++
	tex := s.res.Track(gpu.TextureHandle(s.next))
	return scene.NewRect(s.dev, s.res, 1, s.next, tex)
}

func newStub() *stubResolver {
	dev := gputest.NewDevice()
	return &stubResolver{dev: dev, res: gpu.NewResources(dev), errors: make(map[string]error)}
}

func TestLoadPlacesAssets(t *testing.T) {
	stub := newStub()
	reg := scene.NewRegistry(stub.res)
	v := New(stub, reg)

	err := v.Load(context.Background(), []Placement{
		{Asset: "player", Position: mgl32.Vec3{1, 0, 0}},
		{Asset: "enemy", Scale: mgl32.Vec3{2, 2, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	var transforms []scene.Transform
	reg.Each(func(d scene.Drawable) error {
		transforms = append(transforms, *d.Transform())
		return nil
	})
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, transforms[0].Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, transforms[0].Scale, "unset scale keeps unit scale")
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, transforms[1].Scale)
}

func TestLoadSkipsBrokenAssets(t *testing.T) {
	stub := newStub()
	stub.errors["broken"] = &gpu.CompileError{Stage: gpu.FragmentStage, Path: "broken/shader.frag", Log: "bad"}
	reg := scene.NewRegistry(stub.res)
	v := New(stub, reg)

	require.NoError(t, v.Load(context.Background(), []Placement{{Asset: "broken"}, {Asset: "player"}}))
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"broken"}, v.Failed())
}

func TestLoadFailsWithoutDefaults(t *testing.T) {
	stub := newStub()
	stub.errors["player"] = fmt.Errorf("%w: graphics/default_image.png", assets.ErrDefaultAssetMissing)
	v := New(stub, scene.NewRegistry(stub.res))
	err := v.Load(context.Background(), []Placement{{Asset: "player"}})
	assert.ErrorIs(t, err, assets.ErrDefaultAssetMissing)
}

func TestCleanReleasesEverything(t *testing.T) {
	stub := newStub()
	reg := scene.NewRegistry(stub.res)
	other, err := scene.NewRect(stub.dev, stub.res, 1, 1)
	require.NoError(t, err)
	reg.Add(other)
	v := New(stub, reg)
	require.NoError(t, v.Load(context.Background(), []Placement{{Asset: "a"}, {Asset: "b"}}))
	require.Equal(t, 3+2*4, stub.res.Len())

	v.Clean(context.Background())
	assert.Equal(t, 1, reg.Len(), "drawables registered elsewhere stay")
	assert.Equal(t, 3, stub.res.Len())
	assert.Equal(t, 0, v.Len())
}
