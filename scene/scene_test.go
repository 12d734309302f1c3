package scene

import (
	"testing"

	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/gpu/gputest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlifyThenRenderDrawsOnce(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	mesh := NewMesh(PositionUV)
	require.NoError(t, mesh.Vertices.PushAll(quadVertices...))
	require.NoError(t, mesh.Indices.PushAll(0, 1, 2, 2, 3, 0, 0, 2, 3))
	require.NoError(t, mesh.Glify(dev))

	m, err := NewModel(dev, res, mesh, 10, 11)
	require.NoError(t, err)
	require.NoError(t, m.Render(mgl32.Ident4(), mgl32.Ident4()))

	assert.Equal(t, []int32{9}, dev.Draws)
	assert.Equal(t, 1, dev.Count("UseProgram(10)"))
	assert.Equal(t, 1, dev.Count("BindTexture(0,11)"))
	assert.Equal(t, 3, len(m.Owned()), "vertex array and both buffers")
}

func TestBufferIsAppendOnlyUntilUpload(t *testing.T) {
	dev := gputest.NewDevice()
	b := NewBuffer[uint32](gpu.ElementArrayBuffer)
	require.NoError(t, b.PushAll(1, 2))
	require.NoError(t, b.PushAll(3))
	require.NoError(t, b.Glify(dev))
	assert.Equal(t, []uint32{1, 2, 3}, dev.Buffers[b.ID()])
	assert.ErrorIs(t, b.PushAll(4), ErrBufferUploaded)
	assert.ErrorIs(t, b.Glify(dev), ErrBufferUploaded)
	assert.Equal(t, 3, b.Len())
}

func TestMeshBindsVertexArrayBeforeBuffers(t *testing.T) {
	dev := gputest.NewDevice()
	mesh := NewQuadMesh()
	require.NoError(t, mesh.Glify(dev))

	assert.Equal(t, mesh.array, dev.BufferVAO[mesh.Vertices.ID()])
	assert.Equal(t, mesh.array, dev.BufferVAO[mesh.Indices.ID()])
	require.Len(t, dev.Attributes, 2)
	assert.Equal(t, gputest.Attribute{VertexArray: mesh.array, Index: 0, Size: 3, Stride: 20, Offset: 0}, dev.Attributes[0])
	assert.Equal(t, gputest.Attribute{VertexArray: mesh.array, Index: 1, Size: 2, Stride: 20, Offset: 12}, dev.Attributes[1])
}

func TestMeshRejectsInvalidIndices(t *testing.T) {
	dev := gputest.NewDevice()
	mesh := NewMesh(PositionUV)
	mesh.Vertices.PushAll(quadVertices...)
	mesh.Indices.PushAll(0, 1, 4)
	assert.ErrorIs(t, mesh.Glify(dev), ErrIndexOutOfRange)
	assert.Empty(t, dev.Calls, "nothing may be created for invalid geometry")

	mesh = NewMesh(PositionUV)
	mesh.Vertices.PushAll(1, 2, 3)
	assert.ErrorIs(t, mesh.Glify(dev), ErrBadLayout)
}

func TestDrawBeforeUpload(t *testing.T) {
	dev := gputest.NewDevice()
	mesh := NewQuadMesh()
	assert.ErrorIs(t, mesh.Draw(dev), ErrMeshNotUploaded)
	assert.Empty(t, dev.Draws)
}

func TestRectRender(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	r, err := NewRect(dev, res, 1, 2, gpu.TextureHandle(2))
	require.NoError(t, err)
	r.Transform().Translate(mgl32.Vec3{1, 2, 3})

	projection := mgl32.Perspective(1, 1, 0.1, 10)
	require.NoError(t, r.Render(projection, mgl32.Ident4()))

	assert.Equal(t, []int32{6}, dev.Draws)
	assert.Equal(t, projection, dev.Uniforms["projection"])
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), dev.Uniforms["model"])
	assert.Contains(t, r.Owned(), gpu.TextureHandle(2))
	assert.Equal(t, 3, res.Len(), "mesh handles are tracked")
}

func TestTransformComposesScaleRotationTranslation(t *testing.T) {
	tr := DefaultTransform()
	tr.Scale = mgl32.Vec3{2, 2, 2}
	tr.Rotation = mgl32.Vec3{0, 0, mgl32.DegToRad(90)}
	tr.Position = mgl32.Vec3{1, 0, 0}

	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{1, 2, 0, 1}, 1e-5), "got %v", p)
}

func TestDefaultTransformIsIdentity(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), DefaultTransform().Matrix())
}

func TestRegistryKeepsOrderAndReleasesOnRemove(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	reg := NewRegistry(res)

	var rects []*Rect
	for i := 0; i < 3; i++ {
		tex := res.Track(gpu.TextureHandle(gpu.TextureID(100 + i)))
		r, err := NewRect(dev, res, 1, gpu.TextureID(tex.ID), tex)
		require.NoError(t, err)
		rects = append(rects, r)
	}
	first, second, third := reg.Add(rects[0]), reg.Add(rects[1]), reg.Add(rects[2])
	assert.Equal(t, 3, reg.Len())

	var seen []Drawable
	reg.Each(func(d Drawable) error {
		seen = append(seen, d)
		return nil
	})
	assert.Equal(t, []Drawable{rects[0], rects[1], rects[2]}, seen)

	before := res.Len()
	d, found := reg.Remove(second)
	require.True(t, found)
	assert.Same(t, rects[1], d)
	assert.Equal(t, before-4, res.Len(), "texture, vertex array and both buffers are released")
	for _, h := range rects[1].Owned() {
		assert.False(t, res.Tracked(h), "%s still tracked", h)
	}
	_, found = reg.Remove(second)
	assert.False(t, found)

	_, found = reg.Get(first)
	assert.True(t, found)
	_, found = reg.Get(third)
	assert.True(t, found)

	assert.Equal(t, 2, reg.Clear())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, res.Len())
}

func TestRegistryEachStopsOnError(t *testing.T) {
	dev := gputest.NewDevice()
	res := gpu.NewResources(dev)
	reg := NewRegistry(res)
	for i := 0; i < 2; i++ {
		r, err := NewRect(dev, res, 1, 1)
		require.NoError(t, err)
		reg.Add(r)
	}
	calls := 0
	err := reg.Each(func(Drawable) error {
		calls++
		return ErrMeshNotUploaded
	})
	assert.ErrorIs(t, err, ErrMeshNotUploaded)
	assert.Equal(t, 1, calls)
}

func TestClipPlaneProjections(t *testing.T) {
	c := ClipPlane{Left: -2, Right: 2, Top: 1, Bottom: -1, Near: 0.5, Far: 10}
	assert.Equal(t, mgl32.Ortho(-2, 2, -1, 1, 0.5, 10), c.Ortho())
	assert.Equal(t, mgl32.Frustum(-2, 2, -1, 1, 0.5, 10), c.Frustum())
	copied := c
	copied.Left = -3
	assert.Equal(t, float32(-2), c.Left)
}

func TestCameraResize(t *testing.T) {
	cam := NewPerspectiveCamera(1280, 720)
	p := cam.Projection()
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(90), 1280./720., 0.1, 100), p)
	assert.Equal(t, mgl32.LookAtV(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), cam.View())

	cam.Resize(1280, 720)
	assert.Equal(t, p, cam.Projection())
	cam.Resize(800, 800)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100), cam.Projection())
}

func TestOrthoCameraUsesClipPlane(t *testing.T) {
	plane := ClipPlane{Left: -1, Right: 1, Top: 1, Bottom: -1, Near: -1, Far: 1}
	cam := NewOrthoCamera(640, 480, plane)
	assert.Equal(t, plane.Ortho(), cam.Projection())
	cam.Translate(1, 0)
	assert.Equal(t, mgl32.LookAtV(mgl32.Vec3{1, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}), cam.View())
}
