// Package game wires a backend, its worker and the presenter loop together
// and routes panel, mouse and script input to the worker.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/backend"
	"github.com/pthm-cable/smoothlife/camera"
	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/message"
	"github.com/pthm-cable/smoothlife/palette"
	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/renderer"
	"github.com/pthm-cable/smoothlife/telemetry"
	"github.com/pthm-cable/smoothlife/ui"
)

// ErrWorkerStopped is returned by Update once the worker has exited.
var ErrWorkerStopped = errors.New("game: worker stopped")

// Options configures a Game.
type Options struct {
	// Backend overrides engine.backend when set.
	Backend        string
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	// Script is a file of messages applied before the worker starts.
	Script string
}

// presenter is the main-thread half of a backend.
type presenter interface {
	Present() error
	Snapshot() (w, h int, values []float64, err error)
	Close() error
}

// Game holds the running pipeline and the presenter-side state.
type Game struct {
	cfg     *config.Config
	backend *backend.Backend
	worker  *pipeline.Worker
	view    presenter
	screen  renderer.View // nil when headless

	brush pipeline.Brush
	pal   *palette.Palette

	camera *camera.Camera
	panel  *ui.Panel
	hud    *ui.HUD
	input  *ui.BrushInput

	output      *telemetry.OutputManager
	logStats    bool
	statsWindow time.Duration

	started     time.Time
	lastFlush   time.Time
	interval    int64
	iterations  int
	windowIters int
	lastDropped int
	stats       telemetry.IntervalStats
	scratch     []float64

	screenW, screenH int32
}

// NewGame builds the backend from the loaded config and starts the worker.
// In windowed mode the raylib window must already be open.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	pal, err := palette.FromConfig(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		brush:    pipeline.Brush{Radius: cfg.Derived.BrushRadius, Color: cfg.Derived.BrushColor},
		pal:      pal,
		logStats: opts.LogStats,
		screenW:  cfg.Derived.ScreenW32,
		screenH:  cfg.Derived.ScreenH32,
	}
	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}
	g.statsWindow = time.Duration(window * float64(time.Second))

	if err := g.buildBackend(opts); err != nil {
		return nil, err
	}

	runMode, err := pipeline.ParseRunMode(cfg.Engine.RunMode)
	if err != nil {
		g.view.Close()
		return nil, fmt.Errorf("engine.run_mode: %w", err)
	}
	drawBuf, err := pipeline.ParseDrawBuffer(cfg.Engine.DrawBuffer)
	if err != nil {
		g.view.Close()
		return nil, fmt.Errorf("engine.draw_buffer: %w", err)
	}
	g.worker = pipeline.NewWorker(g.backend.Simulation, g.backend.Draw, pipeline.WorkerOptions{
		QueueDepth: cfg.Engine.QueueDepth,
		RunMode:    runMode,
		DrawBuffer: drawBuf,
		Pacer:      pipeline.NewDeadlinePacer(cfg.Derived.MinFrame),
		PerfWindow: cfg.Telemetry.PerfWindow,
		OnStop:     g.backend.Interrupt,
	})

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.view.Close()
		return nil, fmt.Errorf("output: %w", err)
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		g.camera = camera.New(float32(g.screenW), float32(g.screenH), float32(g.backend.Width), float32(g.backend.Height))
		g.panel = ui.NewPanel(cfg, float32(g.screenW)-260, 10, 250)
		g.hud = ui.NewHUD()
		g.input = ui.NewBrushInput()
	}

	if cfg.Engine.SplatOnStart {
		g.worker.Enqueue(pipeline.Splat())
	}
	if opts.Script != "" {
		if err := g.runScript(opts.Script); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if err := g.worker.Start(); err != nil {
		g.Unload()
		return nil, err
	}
	g.started = time.Now()
	g.lastFlush = g.started
	slog.Info("pipeline started",
		"backend", g.backend.Name,
		"grid", fmt.Sprintf("%dx%d", g.backend.Width, g.backend.Height),
		"run_mode", runMode.String(),
		"draw_buffer", drawBuf.String(),
	)
	return g, nil
}

func (g *Game) buildBackend(opts Options) error {
	name := g.cfg.Engine.Backend
	if opts.Backend != "" {
		name = opts.Backend
	}

	var dev *renderer.GLDevice
	bopts := backend.Options{Backend: name}
	if !opts.Headless && name == backend.GPU {
		d, err := renderer.NewGLDevice()
		if err != nil {
			return err
		}
		dev = d
		bopts.Device = d
	}

	b, err := backend.New(g.cfg, bopts)
	if err != nil {
		if dev != nil {
			dev.Close()
		}
		return err
	}
	g.backend = b

	switch {
	case opts.Headless:
		v, ok := b.View.(presenter)
		if !ok {
			return fmt.Errorf("backend %s: view %T cannot snapshot", b.Name, b.View)
		}
		g.view = v
	case b.Frames != nil:
		v := renderer.NewFieldView(b.Frames, g.pal)
		g.view, g.screen = v, v
	default:
		v, err := renderer.NewDisplayView(b.Presenter, dev, b.Width, b.Height, g.screenW, g.screenH, g.pal)
		if err != nil {
			b.View.Close()
			return err
		}
		g.view, g.screen = v, v
	}
	return nil
}

func (g *Game) runScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	n, err := message.RunScript(f, g)
	if err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	slog.Info("script applied", "path", path, "messages", n)
	return nil
}

// Enqueue forwards cmd to the worker queue.
func (g *Game) Enqueue(cmd pipeline.Command) bool { return g.worker.Enqueue(cmd) }

// Step releases one paused iteration.
func (g *Game) Step() { g.worker.Step() }

// SetBrush sets the brush used for mouse edits.
func (g *Game) SetBrush(b pipeline.Brush) {
	g.brush = b.Clamped()
	if g.panel != nil {
		g.panel.SetBrush(g.brush)
	}
}

// SetPalette rebuilds the palette and recolors the screen.
func (g *Game) SetPalette(c config.PaletteConfig) error {
	p, err := palette.FromConfig(c)
	if err != nil {
		return err
	}
	g.pal = p
	if g.screen != nil {
		g.screen.SetPalette(p)
	}
	return nil
}

// Iterations returns the number of worker iterations observed so far.
func (g *Game) Iterations() int { return g.iterations }

// Stats returns the last flushed interval.
func (g *Game) Stats() telemetry.IntervalStats { return g.stats }

// Update runs one headless presenter frame.
func (g *Game) Update() error {
	if err := g.checkWorker(); err != nil {
		return err
	}
	if err := g.view.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	g.flushTelemetry(time.Now())
	time.Sleep(g.cfg.Derived.MinFrame)
	return nil
}

// Draw runs one windowed frame: input, present, then drawing.
func (g *Game) Draw() error {
	if err := g.checkWorker(); err != nil {
		return err
	}
	g.handleInput()
	if err := g.view.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	g.flushTelemetry(time.Now())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	x, y, w, h := g.camera.Source()
	g.screen.Draw(
		rl.Rectangle{X: x, Y: y, Width: w, Height: h},
		rl.Rectangle{Width: float32(g.screenW), Height: float32(g.screenH)},
	)
	g.panel.Draw(g)
	g.hud.Draw(ui.HUDData{
		Backend:    g.backend.Name,
		GridW:      g.backend.Width,
		GridH:      g.backend.Height,
		FPS:        rl.GetFPS(),
		Perf:       g.worker.PerfStats(),
		RunMode:    g.panel.RunMode(),
		DrawBuffer: g.panel.DrawBuffer(),
		Brush:      g.brush,
		Dropped:    g.worker.Queue().Dropped(),
		Stats:      g.stats,
	}, g.screenH)
	g.hud.DrawControls(g.screenW, g.screenH, "[Tab] panel  [Space] step  [S] splat  [C] clear  [wheel/arrows] view  [Home] reset view")
	rl.EndDrawing()
	return nil
}

func (g *Game) checkWorker() error {
	select {
	case <-g.worker.Done():
		if err := g.worker.Err(); err != nil {
			return err
		}
		return ErrWorkerStopped
	default:
		return nil
	}
}

// Unload stops the worker and releases the backend and outputs.
func (g *Game) Unload() error {
	var errs []error
	if g.worker != nil {
		errs = append(errs, g.worker.Stop())
	}
	if g.view != nil {
		errs = append(errs, g.view.Close())
	}
	errs = append(errs, g.output.Close())
	return errors.Join(errs...)
}
