package scene

import (
	"errors"

	"bitbucket.org/kleinnic74/dotto/gpu"
)

var (
	ErrBufferUploaded  = errors.New("buffer already uploaded")
	ErrMeshNotUploaded = errors.New("mesh not uploaded")
	ErrIndexOutOfRange = errors.New("index references missing vertex")
	ErrBadLayout       = errors.New("vertex data does not match layout")
)

// Element is the type of values a Buffer can hold
type Element interface {
	float32 | uint32
}

// Buffer is an append-only element store backed by a device buffer. It is
// filled with PushAll and uploaded once with Glify.
type Buffer[T Element] struct {
	target   gpu.Target
	data     []T
	id       gpu.BufferID
	uploaded bool
}

func NewBuffer[T Element](target gpu.Target) *Buffer[T] {
	return &Buffer[T]{target: target}
}

// PushAll appends elements to the buffer
func (b *Buffer[T]) PushAll(elements ...T) error {
	if b.uploaded {
		return ErrBufferUploaded
	}
	b.data = append(b.data, elements...)
	return nil
}

// Glify creates the device buffer and uploads the current content
func (b *Buffer[T]) Glify(dev gpu.Device) error {
	if b.uploaded {
		return ErrBufferUploaded
	}
	id := dev.CreateBuffer(b.target)
	if err := dev.BufferData(b.target, id, b.data); err != nil {
		dev.DeleteBuffer(id)
		return err
	}
	b.id = id
	b.uploaded = true
	return nil
}

func (b *Buffer[T]) Len() int {
	return len(b.data)
}

func (b *Buffer[T]) Elements() []T {
	return b.data
}

func (b *Buffer[T]) ID() gpu.BufferID {
	return b.id
}

func (b *Buffer[T]) Uploaded() bool {
	return b.uploaded
}
