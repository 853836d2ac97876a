package pipeline

import (
	"log/slog"
	"sync"
)

// DefaultQueueDepth is the command queue capacity used when none is
// configured.
const DefaultQueueDepth = 25

// CommandQueue is a bounded multi-producer queue drained by the worker.
// When full, Enqueue drops the newest command.
type CommandQueue struct {
	mu      sync.Mutex
	cmds    []Command
	max     int
	dropped int
}

// NewCommandQueue creates a queue holding at most max commands.
func NewCommandQueue(max int) *CommandQueue {
	if max < 1 {
		max = DefaultQueueDepth
	}
	return &CommandQueue{max: max, cmds: make([]Command, 0, max)}
}

// Enqueue appends cmd unless the queue is full. It reports whether the
// command was kept.
func (q *CommandQueue) Enqueue(cmd Command) bool {
	q.mu.Lock()
	if len(q.cmds) >= q.max {
		q.dropped++
		n := len(q.cmds)
		q.mu.Unlock()
		slog.Warn("command queue full, dropping command", "command", cmd.Name, "depth", n)
		return false
	}
	q.cmds = append(q.cmds, cmd)
	q.mu.Unlock()
	return true
}

// Drain removes and returns every queued command under one lock
// acquisition.
func (q *CommandQueue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.cmds) == 0 {
		return nil
	}
	out := q.cmds
	q.cmds = make([]Command, 0, q.max)
	return out
}

// Len returns the number of pending commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}

// Dropped returns how many commands were refused since creation.
func (q *CommandQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Cap returns the configured depth.
func (q *CommandQueue) Cap() int { return q.max }
