// Buffer dump tool - runs a few steps headless and writes every draw buffer
// to a PNG for inspection.
//
// Usage: go run ./cmd/bufferdump -backend gpu -steps 50 -out dump
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/backend"
	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/palette"
	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backendName := flag.String("backend", "", "cpu or gpu (empty = use config)")
	soft := flag.Bool("soft", false, "Run the gpu backend on the CPU reference device")
	steps := flag.Int("steps", 0, "Steps to run after the initial splat")
	buffers := flag.String("buffers", "simulation,disc,ring,smoother,palette", "Comma-separated buffers to dump")
	outDir := flag.String("out", "dump", "Output directory")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	// The GL device needs a context; a hidden window provides one.
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(64, 64, "Buffer Dump")
	defer rl.CloseWindow()

	opts := backend.Options{Backend: *backendName}
	name := cfg.Engine.Backend
	if *backendName != "" {
		name = *backendName
	}
	if name == backend.GPU && !*soft {
		dev, err := renderer.NewGLDevice()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GL device: %v\n", err)
			os.Exit(1)
		}
		opts.Device = dev
	}

	b, err := backend.New(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build backend: %v\n", err)
		os.Exit(1)
	}
	defer b.View.Close()
	snap := b.View.(pipeline.Snapshotter)

	pal, err := palette.FromConfig(cfg.Palette)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad palette: %v\n", err)
		os.Exit(1)
	}

	b.Simulation.Splat()
	for i := range *steps {
		if err := b.Simulation.Step(); err != nil {
			fmt.Fprintf(os.Stderr, "Step %d failed: %v\n", i, err)
			os.Exit(1)
		}
	}

	for _, s := range strings.Split(*buffers, ",") {
		buf, err := pipeline.ParseDrawBuffer(strings.TrimSpace(s))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := b.Draw.Draw(buf); err != nil {
			fmt.Fprintf(os.Stderr, "Draw %s failed: %v\n", buf, err)
			os.Exit(1)
		}
		if err := b.View.Present(); err != nil {
			fmt.Fprintf(os.Stderr, "Present %s failed: %v\n", buf, err)
			os.Exit(1)
		}
		w, h, values, err := snap.Snapshot()
		if err != nil || values == nil {
			fmt.Fprintf(os.Stderr, "Read back %s failed: %v\n", buf, err)
			os.Exit(1)
		}

		path := filepath.Join(*outDir, fmt.Sprintf("%s_%s.png", b.Name, buf))
		if err := export(path, pal, values, w, h); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Buffer %s written to: %s (%dx%d)\n", buf, path, w, h)
	}
}

func export(path string, pal *palette.Palette, values []float64, w, h int) error {
	pixels := make([]color.RGBA, len(values))
	pal.Apply(pixels, values)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, c := range pixels {
		img.SetRGBA(i%w, i/w, c)
	}
	if !rl.ExportImage(*rl.NewImageFromImage(img), path) {
		return fmt.Errorf("failed to export %s", path)
	}
	return nil
}
