// Package gpu runs the SmoothLife step as a sequence of texture passes on a
// graphics device.
//
// The worker goroutine never touches the device. It records passes into a
// TaskList and hands finished lists to the graphics goroutine through a
// bounded LockedQueue; the graphics goroutine executes them on its Device.
package gpu

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by PushBack once the queue is closed.
var ErrQueueClosed = errors.New("gpu: queue closed")

// LockedQueue is a bounded FIFO. PushBack blocks while the queue is full,
// which throttles the producer to the consumer's pace. PopFront never
// blocks.
type LockedQueue[T any] struct {
	mu      sync.Mutex
	notFull *sync.Cond
	items   []T
	max     int
	closed  bool
}

// NewLockedQueue returns a queue holding at most max items.
func NewLockedQueue[T any](max int) *LockedQueue[T] {
	if max < 1 {
		max = 1
	}
	q := &LockedQueue[T]{max: max}
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// PushBack appends v, waiting for room.
func (q *LockedQueue[T]) PushBack(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) >= q.max && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, v)
	return nil
}

// PopFront removes the oldest item. ok is false if the queue is empty.
func (q *LockedQueue[T]) PopFront() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return v, false
	}
	v = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	q.notFull.Signal()
	return v, true
}

// Len returns the number of queued items.
func (q *LockedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the queue bound.
func (q *LockedQueue[T]) Cap() int { return q.max }

// Close wakes blocked producers; later pushes fail. Queued items can still
// be popped.
func (q *LockedQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.notFull.Broadcast()
	q.mu.Unlock()
}
