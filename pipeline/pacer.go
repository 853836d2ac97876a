package pipeline

import "time"

// DefaultMinFrame is the minimum worker iteration time (100 iterations per
// second).
const DefaultMinFrame = 10 * time.Millisecond

// Pacer throttles the worker loop. Pace returns early when quit is closed.
type Pacer interface {
	Pace(quit <-chan struct{})
}

// DeadlinePacer sleeps until the previous deadline plus a fixed budget.
type DeadlinePacer struct {
	min  time.Duration
	last time.Time
	now  func() time.Time
}

// NewDeadlinePacer returns a pacer with minimum iteration time min.
func NewDeadlinePacer(min time.Duration) *DeadlinePacer {
	return &DeadlinePacer{min: min, now: time.Now}
}

// Pace sleeps the remainder of the budget since the last call.
func (p *DeadlinePacer) Pace(quit <-chan struct{}) {
	now := p.now()
	if !p.last.IsZero() {
		if wait := p.last.Add(p.min).Sub(now); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-quit:
				t.Stop()
			}
			now = p.now()
		}
	}
	p.last = now
}

// ManualPacer hands control of each iteration to a test harness. The worker
// parks in Pace until Next is called.
type ManualPacer struct {
	reached chan struct{}
	next    chan struct{}
}

// NewManualPacer returns an unbuffered manual pacer.
func NewManualPacer() *ManualPacer {
	return &ManualPacer{
		reached: make(chan struct{}),
		next:    make(chan struct{}),
	}
}

// Pace reports the end of an iteration and waits for Next.
func (p *ManualPacer) Pace(quit <-chan struct{}) {
	select {
	case p.reached <- struct{}{}:
	case <-quit:
		return
	}
	select {
	case <-p.next:
	case <-quit:
	}
}

// Reached blocks until the worker finishes an iteration, or the timeout
// elapses. It reports whether an iteration finished.
func (p *ManualPacer) Reached(timeout time.Duration) bool {
	select {
	case <-p.reached:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Next releases the worker into its next iteration.
func (p *ManualPacer) Next() {
	p.next <- struct{}{}
}
