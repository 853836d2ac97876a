package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/gpu"
	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/telemetry"
)

func init() {
	config.MustInit("")
}

func smallConfig(backend string) *config.Config {
	cfg := *config.Cfg()
	cfg.Grid.Width, cfg.Grid.Height = 32, 32
	cfg.Kernel = kernel.Config{DiscRadius: 2, RingRadius: 6, BlendRadius: 1}
	cfg.Engine.Backend = backend
	return &cfg
}

// run drives n worker iterations, presenting after each one.
func run(t *testing.T, b *Backend, mode pipeline.RunMode, n int) {
	t.Helper()
	pacer := pipeline.NewManualPacer()
	w := pipeline.NewWorker(b.Simulation, b.Draw, pipeline.WorkerOptions{
		RunMode: mode,
		Pacer:   pacer,
		OnStop:  b.Interrupt,
	})
	w.Enqueue(pipeline.Splat())
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := range n {
		if !pacer.Reached(5 * time.Second) {
			t.Fatalf("iteration %d did not finish", i)
		}
		if err := b.View.Present(); err != nil {
			t.Fatalf("present: %v", err)
		}
		if i < n-1 {
			pacer.Next()
		}
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("worker: %v", err)
	}
}

func TestNew_Headless(t *testing.T) {
	for _, name := range []string{CPU, GPU} {
		t.Run(name, func(t *testing.T) {
			b, err := New(smallConfig(name), Options{})
			if err != nil {
				t.Fatal(err)
			}
			defer b.View.Close()
			if b.Name != name {
				t.Errorf("Name = %q", b.Name)
			}
			if (b.Frames != nil) == (b.Presenter != nil) {
				t.Error("want exactly one of Frames and Presenter")
			}

			// Without stepping the published field is the splat itself.
			run(t, b, pipeline.RunDisabled, 3)

			snap, ok := b.View.(pipeline.Snapshotter)
			if !ok {
				t.Fatalf("%T cannot snapshot", b.View)
			}
			w, h, values, err := snap.Snapshot()
			if err != nil {
				t.Fatal(err)
			}
			if w != 32 || h != 32 || len(values) != 32*32 {
				t.Fatalf("snapshot %dx%d with %d values", w, h, len(values))
			}
			if telemetry.Mass(values) == 0 {
				t.Error("splatted field has no mass")
			}
		})
	}
}

func TestNew_Steps(t *testing.T) {
	for _, name := range []string{CPU, GPU} {
		t.Run(name, func(t *testing.T) {
			b, err := New(smallConfig(name), Options{})
			if err != nil {
				t.Fatal(err)
			}
			defer b.View.Close()
			run(t, b, pipeline.RunContinuous, 5)
		})
	}
}

func TestNew_BackendOverride(t *testing.T) {
	b, err := New(smallConfig(CPU), Options{Backend: GPU})
	if err != nil {
		t.Fatal(err)
	}
	defer b.View.Close()
	if b.Presenter == nil || b.Interrupt == nil {
		t.Error("override did not select the gpu backend")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(smallConfig("vulkan"), Options{}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend: %v", err)
	}

	cfg := smallConfig(GPU)
	cfg.Grid.Width = 24
	if _, err := New(cfg, Options{}); !errors.Is(err, gpu.ErrNotPowerOfTwo) {
		t.Errorf("odd grid: %v", err)
	}
}
