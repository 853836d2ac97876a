// Package pipeline runs a simulation on a dedicated worker goroutine and
// hands published snapshots to a presenter.
//
// The worker owns the Simulation exclusively. Other goroutines reach it only
// through the bounded CommandQueue, and read its output only through a
// SharedBuffer or a backend-specific deferred queue.
package pipeline

import "sync"

// SharedBuffer is a mutex-guarded payload. Lock returns the payload and the
// caller must call Unlock when done; hold it only for a bulk copy.
type SharedBuffer[T any] struct {
	mu sync.Mutex
	v  T
}

// NewSharedBuffer wraps v.
func NewSharedBuffer[T any](v T) *SharedBuffer[T] {
	return &SharedBuffer[T]{v: v}
}

// Lock acquires the buffer and returns its payload.
func (b *SharedBuffer[T]) Lock() *T {
	b.mu.Lock()
	return &b.v
}

// Unlock releases the buffer.
func (b *SharedBuffer[T]) Unlock() {
	b.mu.Unlock()
}

// With runs fn with the buffer locked.
func (b *SharedBuffer[T]) With(fn func(*T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.v)
}

// Frame is a published grid snapshot.
type Frame struct {
	Width, Height int
	Values        []float64
	Buffer        DrawBuffer
	// Seq increments on every publish.
	Seq uint64
}

// NewFrame allocates a zeroed w x h frame.
func NewFrame(w, h int) Frame {
	return Frame{Width: w, Height: h, Values: make([]float64, w*h)}
}

// CopyFrom replaces the frame contents with src and bumps Seq.
func (f *Frame) CopyFrom(src []float64, buf DrawBuffer) {
	copy(f.Values, src)
	f.Buffer = buf
	f.Seq++
}
