// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/transition"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig      `yaml:"screen"`
	Grid      GridConfig        `yaml:"grid"`
	Kernel    kernel.Config     `yaml:"kernel"`
	Smoother  transition.Config `yaml:"smoother"`
	Engine    EngineConfig      `yaml:"engine"`
	Brush     BrushConfig       `yaml:"brush"`
	Palette   PaletteConfig     `yaml:"palette"`
	Telemetry TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the field dimensions in cells.
// The GPU backend needs both to be powers of two.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EngineConfig selects the backend and tunes the worker loop.
type EngineConfig struct {
	Backend       string `yaml:"backend"`         // cpu or gpu
	FFT           string `yaml:"fft"`             // CPU transform provider: gonum or dsp
	QueueDepth    int    `yaml:"queue_depth"`     // Command queue capacity
	GPUQueueDepth int    `yaml:"gpu_queue_depth"` // Deferred graphics queue capacity
	MinFrameMS    int    `yaml:"min_frame_ms"`    // Minimum worker iteration time
	RunMode       string `yaml:"run_mode"`        // continuous, paused, disabled, or option words
	DrawBuffer    string `yaml:"draw_buffer"`     // simulation, disc, ring, smoother, palette
	Seed          int64  `yaml:"seed"`            // Splat RNG seed, 0 = time-based
	SplatOnStart  bool   `yaml:"splat_on_start"`
}

// BrushConfig holds the initial edit brush.
type BrushConfig struct {
	Radius float64 `yaml:"radius"`
	Color  float64 `yaml:"color"`
}

// PaletteStop is one gradient color at a position in percent.
type PaletteStop struct {
	Color    string  `yaml:"color"` // #rrggbb
	Position float64 `yaml:"position"`
}

// PaletteConfig selects the display palette.
type PaletteConfig struct {
	Kind      string        `yaml:"kind"` // gradient, white_on_black, black_on_white, lab
	Repeating bool          `yaml:"repeating"`
	Stops     []PaletteStop `yaml:"stops"`
	LabC      float64       `yaml:"lab_c"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds between stats records
	PerfWindow  int     `yaml:"perf_window"`  // Worker iterations averaged by perf stats
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells       int           // Grid.Width * Grid.Height
	MinFrame    time.Duration // Engine.MinFrameMS as a duration
	PowerOfTwo  bool          // Both grid dimensions are powers of two
	BrushRadius float64       // Brush.Radius clamped to [0, 100]
	BrushColor  float64       // Brush.Color clamped to [0, 1]
	ScreenW32   int32         // Screen.Width for raylib calls
	ScreenH32   int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Grid.Width < 2 || c.Grid.Height < 2 {
		return fmt.Errorf("grid must be at least 2x2, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if err := c.Kernel.Validate(); err != nil {
		return fmt.Errorf("kernel: %w", err)
	}
	if err := c.Smoother.Validate(); err != nil {
		return fmt.Errorf("smoother: %w", err)
	}
	switch c.Engine.Backend {
	case "cpu", "gpu":
	default:
		return fmt.Errorf("unknown backend %q", c.Engine.Backend)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.Grid.Width * c.Grid.Height
	c.Derived.MinFrame = time.Duration(c.Engine.MinFrameMS) * time.Millisecond
	c.Derived.PowerOfTwo = isPowerOfTwo(c.Grid.Width) && isPowerOfTwo(c.Grid.Height)
	c.Derived.BrushRadius = max(0, min(c.Brush.Radius, 100))
	c.Derived.BrushColor = max(0, min(c.Brush.Color, 1))
	c.Derived.ScreenW32 = int32(c.Screen.Width)
	c.Derived.ScreenH32 = int32(c.Screen.Height)
}

// ResolveSeed fixes the splat seed for this run. A non-zero override wins,
// then engine.seed, then the clock. The chosen seed is stored back so the
// config snapshot reproduces the run.
func (c *Config) ResolveSeed(override int64, now func() time.Time) int64 {
	seed := override
	if seed == 0 {
		seed = c.Engine.Seed
	}
	if seed == 0 {
		seed = now().UnixNano()
	}
	c.Engine.Seed = seed
	return seed
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
