package gpu

import "fmt"

// Kind is the type of a device resource
type Kind int

const (
	ShaderKind Kind = iota
	ProgramKind
	TextureKind
	BufferKind
	VertexArrayKind
)

func (k Kind) String() string {
	switch k {
	case ShaderKind:
		return "shader"
	case ProgramKind:
		return "program"
	case TextureKind:
		return "texture"
	case BufferKind:
		return "buffer"
	case VertexArrayKind:
		return "vertexarray"
	default:
		return "unknown"
	}
}

// Handle identifies any device resource
type Handle struct {
	Kind Kind
	ID   uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d", h.Kind, h.ID)
}

func ProgramHandle(id ProgramID) Handle         { return Handle{ProgramKind, uint32(id)} }
func TextureHandle(id TextureID) Handle         { return Handle{TextureKind, uint32(id)} }
func BufferHandle(id BufferID) Handle           { return Handle{BufferKind, uint32(id)} }
func VertexArrayHandle(id VertexArrayID) Handle { return Handle{VertexArrayKind, uint32(id)} }

// Resources is the owner table of every live device resource. Handles are
// released at most once; whatever is still tracked when ReleaseAll is called
// gets released in reverse acquisition order.
type Resources struct {
	dev   Device
	order []Handle
	live  map[Handle]struct{}
}

func NewResources(dev Device) *Resources {
	return &Resources{
		dev:  dev,
		live: make(map[Handle]struct{}),
	}
}

// Track registers ownership of h and returns it
func (r *Resources) Track(h Handle) Handle {
	if _, found := r.live[h]; found {
		return h
	}
	r.live[h] = struct{}{}
	r.order = append(r.order, h)
	return h
}

// Tracked reports whether h is still owned by this table
func (r *Resources) Tracked(h Handle) bool {
	_, found := r.live[h]
	return found
}

// Release deletes the device object behind h. It returns false if h was
// not tracked (never acquired or already released).
func (r *Resources) Release(h Handle) bool {
	if _, found := r.live[h]; !found {
		return false
	}
	delete(r.live, h)
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.order[i] == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.delete(h)
	return true
}

// ReleaseAll releases every tracked handle, newest first, and returns how
// many were released.
func (r *Resources) ReleaseAll() int {
	n := len(r.order)
	for i := n - 1; i >= 0; i-- {
		h := r.order[i]
		delete(r.live, h)
		r.delete(h)
	}
	r.order = nil
	return n
}

// Len returns the number of tracked handles
func (r *Resources) Len() int {
	return len(r.order)
}

func (r *Resources) delete(h Handle) {
	switch h.Kind {
	case ShaderKind:
		r.dev.DeleteShader(ShaderID(h.ID))
	case ProgramKind:
		r.dev.DeleteProgram(ProgramID(h.ID))
	case TextureKind:
		r.dev.DeleteTexture(TextureID(h.ID))
	case BufferKind:
		r.dev.DeleteBuffer(BufferID(h.ID))
	case VertexArrayKind:
		r.dev.DeleteVertexArray(VertexArrayID(h.ID))
	}
}
