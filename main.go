package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	backendName := flag.String("backend", "", "Simulation backend: cpu or gpu (empty = use config)")
	script := flag.String("script", "", "File of messages to apply at startup")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxSteps := flag.Int("max-steps", 0, "Stop after N worker iterations (0 = unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = engine.seed, then time-based)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	rngSeed := cfg.ResolveSeed(*seed, time.Now)

	opts := game.Options{
		Backend:        *backendName,
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Script:         *script,
	}

	if !*headless {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, "SmoothLife")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"headless", *headless,
		"seed", rngSeed,
		"max_steps", *maxSteps,
		"output_dir", *outputDir,
	)

	runErr := run(g, *headless, *maxSteps)
	if err := g.Unload(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil && !errors.Is(runErr, game.ErrWorkerStopped) {
		slog.Error("simulation failed", "error", runErr)
		os.Exit(1)
	}
}

func run(g *game.Game, headless bool, maxSteps int) error {
	for headless || !rl.WindowShouldClose() {
		var err error
		if headless {
			err = g.Update()
		} else {
			err = g.Draw()
		}
		if err != nil {
			return err
		}
		if maxSteps > 0 && g.Iterations() >= maxSteps {
			slog.Info("max steps reached", "iterations", g.Iterations())
			return nil
		}
	}
	return nil
}
