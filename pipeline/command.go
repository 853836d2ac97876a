package pipeline

import (
	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/transition"
)

// Command is a deferred single-shot operation executed on the worker.
// Arguments are captured by value when the command is built.
type Command struct {
	Name string
	Run  func(w *Worker) error
}

// SetKernel rebuilds the kernel. A degenerate kernel stops the worker.
func SetKernel(cfg kernel.Config) Command {
	return Command{Name: "SetKernel", Run: func(w *Worker) error {
		return w.sim.SetKernel(cfg)
	}}
}

// SetSmoother rebuilds the transition table.
func SetSmoother(cfg transition.Config) Command {
	return Command{Name: "SetSmoother", Run: func(w *Worker) error {
		return w.sim.SetSmoother(cfg)
	}}
}

// Clear fills the field with color.
func Clear(color float64) Command {
	return Command{Name: "Clear", Run: func(w *Worker) error {
		w.sim.Clear(color)
		return nil
	}}
}

// Splat seeds the field with random circles.
func Splat() Command {
	return Command{Name: "Splat", Run: func(w *Worker) error {
		w.sim.Splat()
		return nil
	}}
}

// DrawCircle paints one brush circle centered at (x, y).
func DrawCircle(x, y float64, b Brush) Command {
	b = b.Clamped()
	return Command{Name: "DrawFilledCircle", Run: func(w *Worker) error {
		w.sim.DrawFilledCircle(x, y, b.Radius, b.Color)
		return nil
	}}
}

// SetRunMode switches the simulate and pause flags.
func SetRunMode(m RunMode) Command {
	return Command{Name: "SetRunMode", Run: func(w *Worker) error {
		w.runMode = m
		return nil
	}}
}

// SetDrawBuffer selects the published buffer.
func SetDrawBuffer(b DrawBuffer) Command {
	return Command{Name: "SetDrawBuffer", Run: func(w *Worker) error {
		w.drawBuf = b
		return nil
	}}
}
