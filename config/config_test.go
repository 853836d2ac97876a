package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/smoothlife/sigmoid"
	"github.com/pthm-cable/smoothlife/transition"
)

func TestResolveSeed(t *testing.T) {
	clock := func() time.Time { return time.Unix(0, 42) }
	tests := []struct {
		name     string
		cfgSeed  int64
		override int64
		want     int64
	}{
		{"time based", 0, 0, 42},
		{"config", 7, 0, 7},
		{"flag wins", 7, 9, 9},
		{"flag only", 0, 9, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			cfg.Engine.Seed = tt.cfgSeed
			if got := cfg.ResolveSeed(tt.override, clock); got != tt.want {
				t.Errorf("ResolveSeed = %d, want %d", got, tt.want)
			}
			if cfg.Engine.Seed != tt.want {
				t.Errorf("engine.seed = %d, want %d", cfg.Engine.Seed, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Grid.Width != 512 || cfg.Grid.Height != 512 {
		t.Errorf("grid = %dx%d, want 512x512", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Kernel.DiscRadius != 4 || cfg.Kernel.RingRadius != 12 || cfg.Kernel.BlendRadius != 1 {
		t.Errorf("kernel = %+v", cfg.Kernel)
	}
	s := cfg.Smoother
	if s.Timestep.Type != transition.Discrete || s.Mode != transition.Mode4 {
		t.Errorf("smoother timestep/mode = %v/%v", s.Timestep.Type, s.Mode)
	}
	if s.Sigmoid != sigmoid.FamilySmooth || s.Mix != sigmoid.FamilySmooth {
		t.Errorf("smoother families = %v/%v", s.Sigmoid, s.Mix)
	}
	if cfg.Engine.QueueDepth != 25 {
		t.Errorf("queue depth = %d, want 25", cfg.Engine.QueueDepth)
	}
	if cfg.Derived.MinFrame != 10*time.Millisecond {
		t.Errorf("MinFrame = %v", cfg.Derived.MinFrame)
	}
	if !cfg.Derived.PowerOfTwo || cfg.Derived.Cells != 512*512 {
		t.Errorf("derived = %+v", cfg.Derived)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
grid:
  width: 300
smoother:
  timestep:
    type: smooth2
  sigmoid: hermite
brush:
  radius: 400
  color: -1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Width != 300 || cfg.Grid.Height != 512 {
		t.Errorf("grid = %dx%d, want 300x512", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Smoother.Timestep.Type != transition.Smooth2 {
		t.Errorf("timestep = %v, want smooth2", cfg.Smoother.Timestep.Type)
	}
	// Fields absent from the overlay keep their defaults.
	if cfg.Smoother.Timestep.DT != 0.1 || cfg.Smoother.B1 != 0.278 {
		t.Errorf("defaults lost: %+v", cfg.Smoother)
	}
	if cfg.Smoother.Sigmoid != sigmoid.FamilyHermite {
		t.Errorf("sigmoid = %v", cfg.Smoother.Sigmoid)
	}
	if cfg.Derived.PowerOfTwo {
		t.Error("300 is not a power of two")
	}
	if cfg.Derived.BrushRadius != 100 || cfg.Derived.BrushColor != 0 {
		t.Errorf("brush not clamped: %v %v", cfg.Derived.BrushRadius, cfg.Derived.BrushColor)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"tiny grid", "grid: {width: 1}"},
		{"backend", "engine: {backend: vulkan}"},
		{"timestep", "smoother: {timestep: {type: smooth9}}"},
		{"mode", "smoother: {mode: 7}"},
		{"kernel", "kernel: {ring_radius: -3}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Smoother.Timestep.Type = transition.Smooth4
	cfg.Kernel.RingRadius = 9

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if got.Smoother != cfg.Smoother || got.Kernel != cfg.Kernel {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", got.Smoother, cfg.Smoother)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() before Init did not panic")
		}
	}()
	Cfg()
}
