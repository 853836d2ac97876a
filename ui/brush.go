package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/camera"
	"github.com/pthm-cable/smoothlife/message"
	"github.com/pthm-cable/smoothlife/pipeline"
)

// maxStamps bounds the circles one drag segment sends, leaving room in the
// command queue for everything else.
const maxStamps = 8

// BrushInput turns mouse drags over the field into DrawCircle commands. The
// left button paints with the brush color and the right button erases.
type BrushInput struct {
	last    rl.Vector2
	drawing bool
}

// NewBrushInput creates an idle brush.
func NewBrushInput() *BrushInput {
	return &BrushInput{}
}

// Update samples the mouse. cam maps the window onto the grid; blocked
// suppresses painting while the pointer is over other UI.
func (b *BrushInput) Update(t message.Target, brush pipeline.Brush, cam *camera.Camera, blocked bool) {
	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	right := rl.IsMouseButtonDown(rl.MouseButtonRight)
	if blocked || (!left && !right) {
		b.drawing = false
		return
	}
	if !left {
		brush.Color = 0
	}

	pos := rl.GetMousePosition()
	gx, gy := cam.ScreenToGrid(pos.X, pos.Y)
	cell := rl.Vector2{X: gx, Y: gy}
	from := cell
	if b.drawing {
		// Stroke toward the nearest copy so crossing an edge stays short.
		from = b.last
		cell.X, cell.Y = cam.Nearest(from.X, from.Y, gx, gy)
	}
	b.last = rl.Vector2{X: gx, Y: gy}
	b.drawing = true

	for _, p := range Stamps(from, cell, brush.Radius) {
		if !t.Enqueue(pipeline.DrawCircle(float64(p.X), float64(p.Y), brush)) {
			return
		}
	}
}

// Stamps returns circle centers from a to b spaced about half a radius
// apart, ending at b. At most maxStamps are returned.
func Stamps(a, b rl.Vector2, radius float64) []rl.Vector2 {
	dist := float64(rl.Vector2Distance(a, b))
	spacing := max(radius/2, 1)
	n := min(int(math.Ceil(dist/spacing)), maxStamps)
	if n < 1 {
		return []rl.Vector2{b}
	}
	out := make([]rl.Vector2, n)
	for i := range n {
		out[i] = rl.Vector2Lerp(a, b, float32(i+1)/float32(n))
	}
	return out
}
