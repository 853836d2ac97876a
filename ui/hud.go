package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/telemetry"
)

// HUDData holds everything the status overlay shows.
type HUDData struct {
	Backend    string
	GridW      int
	GridH      int
	FPS        int32
	Perf       telemetry.PerfStats
	RunMode    pipeline.RunMode
	DrawBuffer pipeline.DrawBuffer
	Brush      pipeline.Brush
	Dropped    int
	Stats      telemetry.IntervalStats
}

// HUD renders the status overlay in the bottom-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData, screenH int32) {
	r := h.renderer
	lines := int32(6)
	x := r.Theme.Padding
	y := screenH - lines*r.Theme.LineHeight - 2*r.Theme.Padding
	r.DrawPanel(x-4, y-4, 260, lines*r.Theme.LineHeight+8)

	y = r.DrawLabelValue(x, y, "Backend", fmt.Sprintf("%s %dx%d", data.Backend, data.GridW, data.GridH))
	y = r.DrawLabelValue(x, y, "Rate", fmt.Sprintf("%d fps | %.1f it/s", data.FPS, data.Perf.TicksPerSecond))
	y = r.DrawLabelValue(x, y, "Iteration", data.Perf.AvgTickDuration.String())
	y = r.DrawLabelValue(x, y, "Run", fmt.Sprintf("%s | %s", data.RunMode, data.DrawBuffer))
	y = r.DrawLabelValue(x, y, "Brush", fmt.Sprintf("r=%.0f c=%.2f | dropped %d", data.Brush.Radius, data.Brush.Color, data.Dropped))
	r.DrawLabelValue(x, y, "Field", fmt.Sprintf("mean %.3f | alive %.1f%%", data.Stats.FieldMean, 100*data.Stats.Alive))
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenW, screenH int32, controls string) {
	w := rl.MeasureText(controls, 12)
	rl.DrawText(controls, screenW-w-10, screenH-20, 12, rl.Gray)
}
