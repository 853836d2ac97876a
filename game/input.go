package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/pipeline"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.Step()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.Enqueue(pipeline.Splat())
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.Enqueue(pipeline.Clear(0))
	}

	g.handleCameraInput()

	mouse := rl.GetMousePosition()
	g.input.Update(g, g.brush, g.camera, g.panel.Contains(mouse))
}

// handleResize tracks the window size for layout.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenW = int32(rl.GetScreenWidth())
	g.screenH = int32(rl.GetScreenHeight())
	g.camera.Resize(float32(g.screenW), float32(g.screenH))
}

// handleCameraInput processes pan and zoom controls.
func (g *Game) handleCameraInput() {
	panSpeed := float32(8.0)
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
