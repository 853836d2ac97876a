// Package backend builds the simulation, draw strategy and headless view
// for the CPU and GPU pipelines from the loaded configuration.
package backend

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/gpu"
	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/simulation"
	"github.com/pthm-cable/smoothlife/spectral"
)

const (
	CPU = "cpu"
	GPU = "gpu"
)

// ErrUnknownBackend is returned for a backend name other than cpu or gpu.
var ErrUnknownBackend = errors.New("backend: unknown backend")

// Options override parts of the configuration.
type Options struct {
	// Backend overrides engine.backend when set.
	Backend string
	// Device executes GPU task lists. Defaults to a SoftDevice.
	Device gpu.Device
}

// Backend is a built pipeline. Exactly one of Frames and Presenter is set,
// so windowed callers can swap in a view that draws on screen.
type Backend struct {
	pipeline.Bundle
	Name          string
	Width, Height int

	Frames    *pipeline.SharedBuffer[pipeline.Frame]
	Presenter *gpu.Presenter
}

// New builds the backend selected by cfg and opts.
func New(cfg *config.Config, opts Options) (*Backend, error) {
	name := cfg.Engine.Backend
	if opts.Backend != "" {
		name = opts.Backend
	}
	switch name {
	case CPU:
		return newCPU(cfg)
	case GPU:
		return newGPU(cfg, opts.Device)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, name)
}

func newCPU(cfg *config.Config) (*Backend, error) {
	e, err := simulation.New(simulation.Config{
		Width:    cfg.Grid.Width,
		Height:   cfg.Grid.Height,
		Kernel:   cfg.Kernel,
		Smoother: cfg.Smoother,
		Provider: spectral.Provider(cfg.Engine.FFT),
		Seed:     cfg.Engine.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("cpu backend: %w", err)
	}
	draw := simulation.NewFrameDraw(e)
	return &Backend{
		Bundle: pipeline.Bundle{
			Simulation: e,
			Draw:       draw,
			View:       pipeline.NewFrameView(draw.Output(), nil),
		},
		Name:   CPU,
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Frames: draw.Output(),
	}, nil
}

func newGPU(cfg *config.Config, dev gpu.Device) (*Backend, error) {
	if dev == nil {
		dev = gpu.NewSoftDevice()
	}
	depth := cfg.Engine.GPUQueueDepth
	if depth < 1 {
		depth = gpu.DefaultQueueDepth
	}
	queue := gpu.NewLockedQueue[*gpu.TaskList](depth)
	e, err := gpu.New(gpu.Config{
		Width:    cfg.Grid.Width,
		Height:   cfg.Grid.Height,
		Kernel:   cfg.Kernel,
		Smoother: cfg.Smoother,
		Seed:     cfg.Engine.Seed,
	}, queue)
	if err != nil {
		return nil, fmt.Errorf("gpu backend: %w", err)
	}
	presenter := gpu.NewPresenter(dev, queue, e.Display(), cfg.Grid.Width, cfg.Grid.Height)
	return &Backend{
		Bundle: pipeline.Bundle{
			Simulation: e,
			Draw:       gpu.NewDrawStrategy(e),
			View:       presenter,
			Interrupt:  queue.Close,
		},
		Name:      GPU,
		Width:     cfg.Grid.Width,
		Height:    cfg.Grid.Height,
		Presenter: presenter,
	}, nil
}
