package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ClipPlane bounds a camera frustum
type ClipPlane struct {
	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
}

// Ortho returns the orthographic projection for these bounds
func (c ClipPlane) Ortho() mgl32.Mat4 {
	return mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

// Frustum returns the perspective projection for these bounds
func (c ClipPlane) Frustum() mgl32.Mat4 {
	return mgl32.Frustum(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

type projectionFunc func(width, height int) mgl32.Mat4

// Camera holds the projection and view matrices handed to every drawable
type Camera struct {
	width, height int
	eye, center   mgl32.Vec3
	up            mgl32.Vec3
	project       projectionFunc
	projection    mgl32.Mat4
	view          mgl32.Mat4
	dirty         bool
}

// NewPerspectiveCamera looks from (0,0,1) at the origin with a 90° vertical
// field of view and a visible depth range of 0.1 to 100 units.
func NewPerspectiveCamera(viewportWidth, viewportHeight int) *Camera {
	return newCamera(viewportWidth, viewportHeight, func(w, h int) mgl32.Mat4 {
		return mgl32.Perspective(mgl32.DegToRad(90), float32(w)/float32(h), 0.1, 100)
	})
}

// NewOrthoCamera projects the given bounds regardless of viewport size
func NewOrthoCamera(viewportWidth, viewportHeight int, plane ClipPlane) *Camera {
	return newCamera(viewportWidth, viewportHeight, func(int, int) mgl32.Mat4 {
		return plane.Ortho()
	})
}

func newCamera(width, height int, project projectionFunc) *Camera {
	if height == 0 {
		height = 1
	}
	c := &Camera{
		width:   width,
		height:  height,
		eye:     mgl32.Vec3{0, 0, 1},
		center:  mgl32.Vec3{0, 0, 0},
		up:      mgl32.Vec3{0, 1, 0},
		project: project,
		dirty:   true,
	}
	return c
}

// Translate moves eye and target of the camera
func (c *Camera) Translate(dx, dy float32) {
	d := mgl32.Vec3{dx, dy, 0}
	c.eye = c.eye.Add(d)
	c.center = c.center.Add(d)
	c.dirty = true
}

func (c *Camera) update() {
	if c.dirty {
		c.projection = c.project(c.width, c.height)
		c.view = mgl32.LookAtV(c.eye, c.center, c.up)
		c.dirty = false
	}
}

func (c *Camera) Projection() mgl32.Mat4 {
	c.update()
	return c.projection
}

func (c *Camera) View() mgl32.Mat4 {
	c.update()
	return c.view
}

func (c *Camera) Resize(width, height int) {
	if height == 0 {
		height = 1
	}
	c.dirty = c.dirty || c.width != width || c.height != height
	c.width, c.height = width, height
}
