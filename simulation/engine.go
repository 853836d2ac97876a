// Package simulation implements the CPU SmoothLife engine: it owns the field
// and advances it by spectral convolution and the transition table.
package simulation

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/spectral"
	"github.com/pthm-cable/smoothlife/transition"
)

// Config describes a simulation instance.
type Config struct {
	Width, Height int
	Kernel        kernel.Config
	Smoother      transition.Config
	Provider      spectral.Provider
	Seed          int64
}

// Engine owns the field and its working buffers. It is not safe for
// concurrent use; the pipeline worker is its only caller.
type Engine struct {
	width, height int

	tr     spectral.Transform
	kernel *kernel.Kernel
	lookup *transition.Lookup
	rng    *rand.Rand

	field   []float64
	an      []float64
	am      []float64
	preview []float64

	fieldSpec []complex128
	anSpec    []complex128
	amSpec    []complex128
}

// New creates an engine with a cleared field and built kernel and table.
// Plan creation failures and degenerate kernels are returned as errors.
func New(cfg Config) (*Engine, error) {
	tr, err := spectral.NewTransform(cfg.Provider, cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating transform plan: %w", err)
	}

	n := cfg.Width * cfg.Height
	ns := spectral.SpectrumLen(cfg.Width, cfg.Height)
	e := &Engine{
		width:     cfg.Width,
		height:    cfg.Height,
		tr:        tr,
		kernel:    kernel.New(cfg.Kernel, tr),
		lookup:    transition.NewLookup(cfg.Smoother),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		field:     make([]float64, n),
		an:        make([]float64, n),
		am:        make([]float64, n),
		preview:   make([]float64, n),
		fieldSpec: make([]complex128, ns),
		anSpec:    make([]complex128, ns),
		amSpec:    make([]complex128, ns),
	}

	if err := e.kernel.Build(); err != nil {
		return nil, fmt.Errorf("building kernel: %w", err)
	}
	if err := e.lookup.Build(); err != nil {
		return nil, fmt.Errorf("building transition table: %w", err)
	}
	return e, nil
}

// Size returns the grid dimensions.
func (e *Engine) Size() (int, int) { return e.width, e.height }

// Field returns the live field. It is only valid on the owning goroutine.
func (e *Engine) Field() []float64 { return e.field }

// SetKernel rebuilds the kernel for cfg.
func (e *Engine) SetKernel(cfg kernel.Config) error {
	e.kernel.SetConfig(cfg)
	if err := e.kernel.Build(); err != nil {
		return fmt.Errorf("building kernel: %w", err)
	}
	return nil
}

// SetSmoother rebuilds the transition table for cfg.
func (e *Engine) SetSmoother(cfg transition.Config) error {
	e.lookup.SetConfig(cfg)
	if err := e.lookup.Build(); err != nil {
		return fmt.Errorf("building transition table: %w", err)
	}
	return nil
}

// KernelConfig returns the kernel radii in use.
func (e *Engine) KernelConfig() kernel.Config { return e.kernel.Config() }

// SmootherConfig returns the transition parameters in use.
func (e *Engine) SmootherConfig() transition.Config { return e.lookup.Config() }

// Step advances the field by one generation.
func (e *Engine) Step() error {
	k, err := e.kernel.Spectra()
	if err != nil {
		return err
	}
	tbl, err := e.lookup.Table()
	if err != nil {
		return err
	}

	e.tr.Forward(e.fieldSpec, e.field)

	spectral.Multiply(e.anSpec, e.fieldSpec, k.RingSpectrum, 1/k.RingWeight)
	e.tr.Inverse(e.an, e.anSpec)

	spectral.Multiply(e.amSpec, e.fieldSpec, k.DiscSpectrum, 1/k.DiscWeight)
	e.tr.Inverse(e.am, e.amSpec)

	tbl.Apply(e.field, e.an, e.am, 1/float64(e.width*e.height))
	return nil
}

// RingMask returns the ring mask and its total weight.
func (e *Engine) RingMask() ([]float64, float64, error) {
	k, err := e.kernel.Spectra()
	if err != nil {
		return nil, 0, err
	}
	return k.Ring, k.RingWeight, nil
}

// DiscMask returns the disc mask and its total weight.
func (e *Engine) DiscMask() ([]float64, float64, error) {
	k, err := e.kernel.Spectra()
	if err != nil {
		return nil, 0, err
	}
	return k.Disc, k.DiscWeight, nil
}

// ViewTransition fills the preview buffer with the transition table
// stretched over the grid and returns it. The field is untouched.
func (e *Engine) ViewTransition() ([]float64, error) {
	tbl, err := e.lookup.Table()
	if err != nil {
		return nil, err
	}
	tbl.Preview(e.preview, e.width, e.height)
	return e.preview, nil
}
