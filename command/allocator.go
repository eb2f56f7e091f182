package command

import (
	"context"
	"errors"
	"sync/atomic"
)

const (
	// MaxAllocations is the number of buffers held by the default allocator.
	MaxAllocations = 100

	// MaxAllocationSize is the size in bytes of each buffer held by the default allocator.
	MaxAllocationSize = 192
)

var (
	// ErrExhausted is returned when every buffer held by an allocator is in use.
	ErrExhausted = errors.New("no buffers available")

	// ErrTooLarge is returned when copying more data into a command than fits in a single buffer.
	ErrTooLarge = errors.New("data exceeds buffer size")

	// ErrForeignBuffer is returned when returning a buffer which wasn't borrowed from the allocator.
	ErrForeignBuffer = errors.New("buffer does not belong to this allocator")
)

// Allocator is a thread-safe pool of fixed size buffers which command payloads are copied into. It has the advantage
// over 'sync.Pool' that the amount of memory held by in flight commands is bounded.
//
// NOTE: Internally we use a channel as a buffer, as it's both the free list and the limit on outstanding buffers.
type Allocator struct {
	list        chan []byte
	size        int
	outstanding atomic.Int64
}

// NewAllocator creates an allocator holding count buffers of size bytes each.
func NewAllocator(count, size int) *Allocator {
	allocator := &Allocator{list: make(chan []byte, count), size: size}

	for i := 0; i < count; i++ {
		allocator.list <- make([]byte, size)
	}

	return allocator
}

var defaultAllocator = NewAllocator(MaxAllocations, MaxAllocationSize)

// DefaultAllocator returns the process wide allocator used by 'Command.CopyData'.
func DefaultAllocator() *Allocator {
	return defaultAllocator
}

// Get borrows a buffer, blocking until one becomes available or the context is done.
func (a *Allocator) Get(ctx context.Context) ([]byte, error) {
	select {
	case buf := <-a.list:
		a.outstanding.Add(1)
		return buf, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryGet returns a buffer if one is available. If the bool is false then the buffer should not be used in any way.
func (a *Allocator) TryGet() ([]byte, bool) {
	select {
	case buf := <-a.list:
		a.outstanding.Add(1)
		return buf, true
	default:
		return nil, false
	}
}

// Put returns a buffer borrowed using 'Get'/'TryGet'.
func (a *Allocator) Put(buf []byte) error {
	if cap(buf) != a.size {
		return ErrForeignBuffer
	}

	select {
	case a.list <- buf[:a.size]:
		a.outstanding.Add(-1)
		return nil
	default:
		return ErrForeignBuffer
	}
}

// Outstanding returns the number of buffers currently borrowed.
func (a *Allocator) Outstanding() int {
	return int(a.outstanding.Load())
}

// Available returns the number of buffers which may currently be borrowed.
func (a *Allocator) Available() int {
	return len(a.list)
}

// Size returns the size in bytes of each buffer.
func (a *Allocator) Size() int {
	return a.size
}
