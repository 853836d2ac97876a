// Package renderer draws simulation buffers in a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/palette"
)

// View puts one backend's published buffer on screen. Present runs before
// rl.BeginDrawing and Draw inside it, both on the main thread. Draw maps
// src, in grid cells, onto dst; src may extend past the grid to show the
// wrapped field.
type View interface {
	Present() error
	Draw(src, dst rl.Rectangle)
	SetPalette(p *palette.Palette)
	Snapshot() (w, h int, values []float64, err error)
	Close() error
}
