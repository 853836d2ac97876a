package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/smoothlife/telemetry"
)

// ErrStarted is returned by Start on a worker that has already been started.
var ErrStarted = errors.New("pipeline: worker already started")

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	QueueDepth int
	RunMode    RunMode
	DrawBuffer DrawBuffer
	// Pacer defaults to a DeadlinePacer with DefaultMinFrame.
	Pacer Pacer
	// PerfWindow is the number of iterations averaged by PerfStats.
	PerfWindow int
	// OnStop runs in Stop after the quit flag is set and before waiting for
	// the loop, to unblock a worker waiting on the presenter.
	OnStop func()
}

// Worker owns a Simulation and runs the drain, publish, step, pause, pace
// loop on its own goroutine.
type Worker struct {
	sim    Simulation
	draw   DrawStrategy
	queue  *CommandQueue
	gate   *Gate
	pacer  Pacer
	onStop func()

	// Touched only by the worker goroutine.
	runMode RunMode
	drawBuf DrawBuffer

	frames *SharedBuffer[int]
	stats  *SharedBuffer[telemetry.PerfStats]

	// Worker-local; a snapshot is published to stats every perfEvery ticks.
	perf      *telemetry.PerfCollector
	perfEvery int
	ticks     int

	started atomic.Bool
	quit    atomic.Bool
	quitCh  chan struct{}
	done    chan struct{}
	stop    sync.Once

	errMu sync.Mutex
	err   error
}

// NewWorker creates a stopped worker for sim and draw.
func NewWorker(sim Simulation, draw DrawStrategy, opts WorkerOptions) *Worker {
	pacer := opts.Pacer
	if pacer == nil {
		pacer = NewDeadlinePacer(DefaultMinFrame)
	}
	perf := telemetry.NewPerfCollector(opts.PerfWindow)
	return &Worker{
		sim:       sim,
		draw:      draw,
		queue:     NewCommandQueue(opts.QueueDepth),
		gate:      NewGate(),
		pacer:     pacer,
		onStop:    opts.OnStop,
		runMode:   opts.RunMode,
		drawBuf:   opts.DrawBuffer,
		frames:    NewSharedBuffer(0),
		stats:     NewSharedBuffer(perf.Stats()),
		perf:      perf,
		perfEvery: perf.WindowSize(),
		quitCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start() error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	go w.run()
	return nil
}

// Enqueue queues cmd for the next iteration. It reports false if the
// command was dropped because the queue is full.
func (w *Worker) Enqueue(cmd Command) bool {
	return w.queue.Enqueue(cmd)
}

// Step releases one iteration of a paused worker.
func (w *Worker) Step() {
	w.gate.Release()
}

// SetRunMode queues a run mode change and wakes a paused worker so it takes
// effect.
func (w *Worker) SetRunMode(m RunMode) bool {
	ok := w.Enqueue(SetRunMode(m))
	w.Step()
	return ok
}

// Queue exposes the command queue for inspection.
func (w *Worker) Queue() *CommandQueue { return w.queue }

// FramesAndReset returns the number of iterations since the last call.
func (w *Worker) FramesAndReset() int {
	n := w.frames.Lock()
	defer w.frames.Unlock()
	v := *n
	*n = 0
	return v
}

// PerfStats returns the most recently published timing statistics.
func (w *Worker) PerfStats() telemetry.PerfStats {
	s := w.stats.Lock()
	defer w.stats.Unlock()
	return *s
}

// Done is closed when the worker loop exits.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Err returns the fatal error that stopped the loop, if any.
func (w *Worker) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

// Stop asks the loop to quit, wakes it if paused or pacing, waits for it
// to exit, and returns its fatal error.
func (w *Worker) Stop() error {
	w.stop.Do(func() {
		w.quit.Store(true)
		close(w.quitCh)
		w.gate.Close()
		if w.onStop != nil {
			w.onStop()
		}
	})
	if w.started.Load() {
		<-w.done
	}
	return w.Err()
}

func (w *Worker) run() {
	defer close(w.done)
	slog.Info("worker started", "run_mode", w.runMode.String(), "draw_buffer", w.drawBuf.String())

	for !w.quit.Load() {
		if err := w.iterate(); err != nil {
			if w.quit.Load() {
				// Interrupted by Stop.
				slog.Debug("worker interrupted", "error", err)
				break
			}
			w.errMu.Lock()
			w.err = err
			w.errMu.Unlock()
			slog.Error("worker stopped", "error", err)
			return
		}

		if w.runMode.Paused && !w.gate.Wait() {
			break
		}
		w.pacer.Pace(w.quitCh)
	}
	slog.Info("worker exited")
}

func (w *Worker) iterate() error {
	n := w.frames.Lock()
	*n++
	w.frames.Unlock()

	perf := w.perf
	perf.StartTick()
	defer w.endTick()

	perf.StartPhase(telemetry.PhaseCommands)
	if !w.runMode.Paused {
		// Nobody waited on these; a later pause must block.
		w.gate.Reset()
	}
	for _, cmd := range w.queue.Drain() {
		if err := cmd.Run(w); err != nil {
			return fmt.Errorf("command %s: %w", cmd.Name, err)
		}
	}

	perf.StartPhase(telemetry.PhaseDraw)
	if err := w.draw.Draw(w.drawBuf); err != nil {
		return fmt.Errorf("draw %s: %w", w.drawBuf, err)
	}

	if w.runMode.Simulate {
		perf.StartPhase(telemetry.PhaseStep)
		if err := w.sim.Step(); err != nil {
			return fmt.Errorf("step: %w", err)
		}
	}
	return nil
}

func (w *Worker) endTick() {
	w.perf.EndTick()
	w.ticks++
	if w.ticks%w.perfEvery != 0 {
		return
	}
	stats := w.perf.Stats()
	w.stats.With(func(s *telemetry.PerfStats) { *s = stats })
}
