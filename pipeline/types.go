package pipeline

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/transition"
)

// Simulation is the engine capability set driven by the worker. CPU and GPU
// engines both implement it.
type Simulation interface {
	SetKernel(cfg kernel.Config) error
	SetSmoother(cfg transition.Config) error
	Step() error
	Clear(color float64)
	DrawFilledCircle(x, y, radius, color float64)
	Splat()
}

// DrawStrategy publishes the selected buffer once per worker iteration. It
// holds a borrowed reference to the engine it was built for and runs on the
// worker goroutine.
type DrawStrategy interface {
	Draw(buf DrawBuffer) error
}

// View is the presenter half. Present runs once per presented frame on the
// presenter goroutine; it never blocks on the worker beyond a bulk copy.
type View interface {
	Present() error
	Close() error
}

// Bundle is the trio a backend factory returns.
type Bundle struct {
	Simulation Simulation
	Draw       DrawStrategy
	View       View
	// Interrupt unblocks a worker waiting on the presenter. It is passed to
	// the worker as WorkerOptions.OnStop. May be nil.
	Interrupt func()
}

// RunMode carries the independent simulate and pause flags.
type RunMode struct {
	Simulate bool
	Paused   bool
}

var (
	RunContinuous = RunMode{Simulate: true}
	RunPaused     = RunMode{Simulate: true, Paused: true}
	RunDisabled   = RunMode{}
)

func (m RunMode) String() string {
	var parts []string
	if m.Simulate {
		parts = append(parts, "simulation")
	} else {
		parts = append(parts, "noSimulation")
	}
	if m.Paused {
		parts = append(parts, "pause")
	} else {
		parts = append(parts, "run")
	}
	return strings.Join(parts, " ")
}

// Apply updates m with the option words simulation, noSimulation, pause and
// run. Unknown words are an error and leave m unchanged.
func (m RunMode) Apply(words ...string) (RunMode, error) {
	out := m
	for _, w := range words {
		switch w {
		case "simulation":
			out.Simulate = true
		case "noSimulation":
			out.Simulate = false
		case "pause":
			out.Paused = true
		case "run":
			out.Paused = false
		default:
			return m, fmt.Errorf("unknown run option %q", w)
		}
	}
	return out, nil
}

// ParseRunMode accepts continuous, paused, disabled, or option words.
func ParseRunMode(s string) (RunMode, error) {
	switch s {
	case "continuous", "":
		return RunContinuous, nil
	case "paused":
		return RunPaused, nil
	case "disabled":
		return RunDisabled, nil
	}
	return RunContinuous.Apply(strings.Fields(s)...)
}

// DrawBuffer selects what the worker publishes.
type DrawBuffer int

const (
	DrawField DrawBuffer = iota
	DrawDisc
	DrawRing
	DrawTransition
	DrawPalette
)

var drawBufferNames = [...]string{"simulation", "disc", "ring", "smoother", "palette"}

func (b DrawBuffer) String() string {
	if b < 0 || int(b) >= len(drawBufferNames) {
		return fmt.Sprintf("DrawBuffer(%d)", int(b))
	}
	return drawBufferNames[b]
}

// ParseDrawBuffer maps a draw option name to a DrawBuffer.
func ParseDrawBuffer(s string) (DrawBuffer, error) {
	for i, name := range drawBufferNames {
		if s == name {
			return DrawBuffer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown draw buffer %q", s)
}

// Brush limits.
const (
	MaxBrushRadius = 100.0
)

// Brush is the radius and color of edit circles.
type Brush struct {
	Radius float64
	Color  float64
}

// Clamped returns b with radius in [0, MaxBrushRadius] and color in [0, 1].
func (b Brush) Clamped() Brush {
	return Brush{
		Radius: max(0, min(b.Radius, MaxBrushRadius)),
		Color:  max(0, min(b.Color, 1)),
	}
}
