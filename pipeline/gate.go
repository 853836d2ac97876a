package pipeline

import "sync"

// Gate blocks a paused worker until Release. Releases are counted: each
// one lets exactly one Wait return, and spurious wakeups do not advance
// the worker. Reset discards releases sent while the worker was running.
type Gate struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	closed  bool
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	g := &Gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Release lets one Wait return.
func (g *Gate) Release() {
	g.mu.Lock()
	g.pending++
	g.cond.Signal()
	g.mu.Unlock()
}

// Reset drops every pending release.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.pending = 0
	g.mu.Unlock()
}

// Pending returns the number of releases not yet consumed.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Wait blocks until released or closed. It returns false if the gate was
// closed.
func (g *Gate) Wait() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.pending == 0 && !g.closed {
		g.cond.Wait()
	}
	if g.closed {
		return false
	}
	g.pending--
	return true
}

// Close wakes every waiter permanently.
func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	g.cond.Broadcast()
	g.mu.Unlock()
}
