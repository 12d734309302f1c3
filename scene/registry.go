package scene

import (
	"bitbucket.org/kleinnic74/dotto/gpu"
	"github.com/google/uuid"
)

type entry struct {
	id uuid.UUID
	d  Drawable
}

// Registry is the set of drawables rendered each frame, in insertion order.
// It is only touched from the render thread.
type Registry struct {
	res     *gpu.Resources
	entries []entry
}

// NewRegistry creates an empty registry releasing removed drawables' handles in res
func NewRegistry(res *gpu.Resources) *Registry {
	return &Registry{res: res}
}

// Add registers d for rendering and returns its registration id
func (r *Registry) Add(d Drawable) uuid.UUID {
	id := uuid.New()
	r.entries = append(r.entries, entry{id, d})
	return id
}

// Remove unregisters the drawable and releases the handles it owns
func (r *Registry) Remove(id uuid.UUID) (Drawable, bool) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			r.release(e.d)
			return e.d, true
		}
	}
	return nil, false
}

// Each calls f for every drawable in order and stops at the first error
func (r *Registry) Each(f func(Drawable) error) error {
	for _, e := range r.entries {
		if err := f(e.d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Get(id uuid.UUID) (Drawable, bool) {
	for _, e := range r.entries {
		if e.id == id {
			return e.d, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Clear removes every drawable, releasing owned handles newest first, and
// returns how many were removed
func (r *Registry) Clear() int {
	n := len(r.entries)
	for i := n - 1; i >= 0; i-- {
		r.release(r.entries[i].d)
	}
	r.entries = nil
	return n
}

func (r *Registry) release(d Drawable) {
	if r.res == nil {
		return
	}
	owned := d.Owned()
	for i := len(owned) - 1; i >= 0; i-- {
		r.res.Release(owned[i])
	}
}
