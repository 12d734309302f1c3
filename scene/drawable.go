package scene

import (
	"bitbucket.org/kleinnic74/dotto/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	projectionUniform = "projection"
	viewUniform       = "view"
	modelUniform      = "model"
	textureUniform    = "tex"
)

// Drawable can be rendered into the current context. The set of
// implementations is closed: *Model and *Rect.
type Drawable interface {
	Render(projection, view mgl32.Mat4) error
	Transform() *Transform
	// Owned lists the device objects released together with the drawable
	Owned() []gpu.Handle
	drawable()
}

// Model renders an arbitrary mesh with one program and one texture
type Model struct {
	dev       gpu.Device
	mesh      *Mesh
	program   gpu.ProgramID
	texture   gpu.TextureID
	transform Transform
	owned     []gpu.Handle
}

// NewModel wraps an uploaded mesh. The mesh's handles are tracked in res and
// owned by the model, as are the given extra handles.
func NewModel(dev gpu.Device, res *gpu.Resources, mesh *Mesh, program gpu.ProgramID, texture gpu.TextureID, owned ...gpu.Handle) (*Model, error) {
	if !mesh.Uploaded() {
		if err := mesh.Glify(dev); err != nil {
			for _, h := range mesh.Handles() {
				res.Release(res.Track(h))
			}
			return nil, err
		}
	}
	m := &Model{
		dev:       dev,
		mesh:      mesh,
		program:   program,
		texture:   texture,
		transform: DefaultTransform(),
	}
	for _, h := range mesh.Handles() {
		m.owned = append(m.owned, res.Track(h))
	}
	m.owned = append(m.owned, owned...)
	return m, nil
}

// Render binds program and texture, uploads the matrices and draws the mesh
func (m *Model) Render(projection, view mgl32.Mat4) error {
	m.dev.UseProgram(m.program)
	m.dev.BindTexture(0, m.texture)
	m.dev.UniformInt(m.dev.UniformLocation(m.program, textureUniform), 0)
	m.dev.UniformMatrix4(m.dev.UniformLocation(m.program, projectionUniform), projection)
	m.dev.UniformMatrix4(m.dev.UniformLocation(m.program, viewUniform), view)
	m.dev.UniformMatrix4(m.dev.UniformLocation(m.program, modelUniform), m.transform.Matrix())
	return m.mesh.Draw(m.dev)
}

func (m *Model) Transform() *Transform {
	return &m.transform
}

func (m *Model) Owned() []gpu.Handle {
	return m.owned
}

func (m *Model) Program() gpu.ProgramID {
	return m.program
}

func (m *Model) Texture() gpu.TextureID {
	return m.texture
}

func (m *Model) Mesh() *Mesh {
	return m.mesh
}

func (*Model) drawable() {}

// Rect is a textured unit quad centered on the origin
type Rect struct {
	Model
}

var (
	quadVertices = []float32{
		// Point          // Texture coords
		-0.5, -0.5, 0, 0, 0,
		0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0, 1, 1,
		-0.5, 0.5, 0, 0, 1,
	}
	quadIndices = []uint32{
		0, 1, 2,
		2, 3, 0,
	}
)

// NewQuadMesh returns a fresh, not yet uploaded unit quad
func NewQuadMesh() *Mesh {
	mesh := NewMesh(PositionUV)
	mesh.Vertices.PushAll(quadVertices...)
	mesh.Indices.PushAll(quadIndices...)
	return mesh
}

// NewRect creates a quad drawable. owned lists the program and texture
// handles whose lifetime is bound to this rect.
func NewRect(dev gpu.Device, res *gpu.Resources, program gpu.ProgramID, texture gpu.TextureID, owned ...gpu.Handle) (*Rect, error) {
	m, err := NewModel(dev, res, NewQuadMesh(), program, texture, owned...)
	if err != nil {
		return nil, err
	}
	return &Rect{Model: *m}, nil
}
