package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform places a drawable in the world. Rotation holds Euler angles in
// radians, applied around X, then Y, then Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// DefaultTransform is at the origin, unrotated, with unit scale
func DefaultTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns the world matrix T·R·S
func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotation := mgl32.HomogRotate3DZ(t.Rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X()))
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(rotation).Mul4(scale)
}

func (t *Transform) Translate(d mgl32.Vec3) {
	t.Position = t.Position.Add(d)
}

func (t *Transform) Rotate(d mgl32.Vec3) {
	t.Rotation = t.Rotation.Add(d)
}
