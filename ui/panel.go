package ui

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/config"
	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/message"
	"github.com/pthm-cable/smoothlife/pipeline"
	"github.com/pthm-cable/smoothlife/sigmoid"
	"github.com/pthm-cable/smoothlife/transition"
)

const (
	timestepItems = "discrete;smooth1;smooth2;smooth3;smooth4"
	modeItems     = "mode 1;mode 2;mode 3;mode 4"
	sigmoidItems  = "hard;linear;hermite;sin;smooth"
	bufferItems   = "simulation;disc;ring;smoother;palette"
)

// Panel is the parameter editor. It keeps a local copy of the engine
// parameters and sends edits to a message.Target. Kernel and smoother
// changes are sent when the mouse is released so a drag rebuilds once.
type Panel struct {
	renderer *Renderer
	x, y     float32
	width    float32
	height   float32
	visible  bool

	kernel   kernel.Config
	smoother transition.Config
	brush    pipeline.Brush
	run      pipeline.RunMode
	buffer   pipeline.DrawBuffer

	kernelDirty   bool
	smootherDirty bool
}

// NewPanel creates a panel seeded from cfg.
func NewPanel(cfg *config.Config, x, y, width float32) *Panel {
	run, err := pipeline.ParseRunMode(cfg.Engine.RunMode)
	if err != nil {
		run = pipeline.RunContinuous
	}
	buffer, err := pipeline.ParseDrawBuffer(cfg.Engine.DrawBuffer)
	if err != nil {
		buffer = pipeline.DrawField
	}
	return &Panel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   600,
		visible:  true,
		kernel:   cfg.Kernel,
		smoother: cfg.Smoother,
		brush:    pipeline.Brush{Radius: cfg.Brush.Radius, Color: cfg.Brush.Color}.Clamped(),
		run:      run,
		buffer:   buffer,
	}
}

// Toggle switches panel visibility.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Contains reports whether pt is over the visible panel.
func (p *Panel) Contains(pt rl.Vector2) bool {
	if !p.visible {
		return false
	}
	return rl.CheckCollisionPointRec(pt, rl.Rectangle{X: p.x, Y: p.y, Width: p.width, Height: p.height})
}

// Brush returns the brush as last edited.
func (p *Panel) Brush() pipeline.Brush { return p.brush }

// SetBrush mirrors a brush change made elsewhere.
func (p *Panel) SetBrush(b pipeline.Brush) { p.brush = b }

// RunMode returns the run mode as last selected.
func (p *Panel) RunMode() pipeline.RunMode { return p.run }

// DrawBuffer returns the buffer as last selected.
func (p *Panel) DrawBuffer() pipeline.DrawBuffer { return p.buffer }

// Draw renders the panel and applies edits to t. It must run between
// rl.BeginDrawing and rl.EndDrawing.
func (p *Panel) Draw(t message.Target) {
	if !p.visible {
		return
	}
	r := p.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(int32(p.x), int32(p.y), int32(p.width), int32(p.height))

	y := p.y + pad
	y = p.runSection(t, y)
	y = p.kernelSection(y)
	y = p.smootherSection(y)
	y = p.brushSection(t, y)
	p.height = y - p.y + pad

	p.flush(t)
}

func (p *Panel) row(y float32, h float32) rl.Rectangle {
	pad := float32(p.renderer.Theme.Padding)
	return rl.Rectangle{X: p.x + pad, Y: y, Width: p.width - 2*pad, Height: h}
}

func (p *Panel) header(y float32, title string) float32 {
	pad := p.renderer.Theme.Padding
	return float32(p.renderer.DrawSectionHeader(int32(p.x)+pad, int32(y), title))
}

// slider draws a labeled slider and reports whether the value moved.
func (p *Panel) slider(y *float32, label string, v *float64, lo, hi float64) bool {
	th := p.renderer.Theme
	rl.DrawText(fmt.Sprintf("%s  %.3f", label, *v), int32(p.x)+th.Padding, int32(*y), th.FontSize, th.LabelColor)
	*y += float32(th.LineHeight) - 2
	nv := gui.SliderBar(p.row(*y, 14), "", "", float32(*v), float32(lo), float32(hi))
	*y += 20
	if nv == float32(*v) {
		return false
	}
	*v = float64(nv)
	return true
}

func (p *Panel) combo(y *float32, items string, active int) int {
	n := gui.ComboBox(p.row(*y, 20), items, int32(active))
	*y += 26
	return int(n)
}

func (p *Panel) runSection(t message.Target, y float32) float32 {
	y = p.header(y, "Run")
	bw := (p.width - 2*float32(p.renderer.Theme.Padding) - 8) / 3
	at := func(i int) rl.Rectangle {
		b := p.row(y, 22)
		b.X += float32(i) * (bw + 4)
		b.Width = bw
		return b
	}

	label := "Pause"
	if p.run.Paused || !p.run.Simulate {
		label = "Run"
	}
	if gui.Button(at(0), label) {
		next := pipeline.RunPaused
		if label == "Run" {
			next = pipeline.RunContinuous
		}
		p.send(t, pipeline.SetRunMode(next))
		if next == pipeline.RunContinuous {
			// Wakes a worker parked on the pause gate.
			t.Step()
		}
		p.run = next
	}
	if gui.Button(at(1), "Step") {
		t.Step()
	}
	if gui.Button(at(2), "Splat") {
		p.send(t, pipeline.Splat())
	}
	y += 28

	if gui.Button(at(0), "Clear") {
		p.send(t, pipeline.Clear(0))
	}
	if gui.Button(at(1), "Fill") {
		p.send(t, pipeline.Clear(1))
	}
	y += 28

	if b := pipeline.DrawBuffer(p.combo(&y, bufferItems, int(p.buffer))); b != p.buffer {
		p.send(t, pipeline.SetDrawBuffer(b))
		p.buffer = b
	}
	return y + 4
}

func (p *Panel) kernelSection(y float32) float32 {
	y = p.header(y, "Kernel")
	k := &p.kernel
	if p.slider(&y, "disc radius", &k.DiscRadius, 1, 32) {
		p.kernelDirty = true
	}
	k.RingRadius = max(k.RingRadius, k.DiscRadius+1)
	if p.slider(&y, "ring radius", &k.RingRadius, k.DiscRadius+1, 64) {
		p.kernelDirty = true
	}
	if p.slider(&y, "blend radius", &k.BlendRadius, 0, 8) {
		p.kernelDirty = true
	}
	return y + 4
}

func (p *Panel) smootherSection(y float32) float32 {
	y = p.header(y, "Smoother")
	s := &p.smoother
	dirty := false

	if ts := transition.Timestep(p.combo(&y, timestepItems, int(s.Timestep.Type))); ts != s.Timestep.Type {
		s.Timestep.Type = ts
		dirty = true
	}
	if m := transition.Mode(p.combo(&y, modeItems, int(s.Mode)-1) + 1); m != s.Mode {
		s.Mode = m
		dirty = true
	}
	if f := sigmoid.Family(p.combo(&y, sigmoidItems, int(s.Sigmoid))); f != s.Sigmoid {
		s.Sigmoid = f
		dirty = true
	}
	if f := sigmoid.Family(p.combo(&y, sigmoidItems, int(s.Mix))); f != s.Mix {
		s.Mix = f
		dirty = true
	}

	for _, sl := range []struct {
		label  string
		v      *float64
		lo, hi float64
	}{
		{"dt", &s.Timestep.DT, 0, 1},
		{"b1", &s.B1, 0, 1},
		{"b2", &s.B2, 0, 1},
		{"d1", &s.D1, 0, 1},
		{"d2", &s.D2, 0, 1},
		{"sn", &s.SN, 0, 0.5},
		{"sm", &s.SM, 0, 0.5},
	} {
		if p.slider(&y, sl.label, sl.v, sl.lo, sl.hi) {
			dirty = true
		}
	}
	if dirty {
		p.smootherDirty = true
	}
	return y + 4
}

func (p *Panel) brushSection(t message.Target, y float32) float32 {
	y = p.header(y, "Brush")
	b := p.brush
	changed := p.slider(&y, "radius", &b.Radius, 0, pipeline.MaxBrushRadius)
	if p.slider(&y, "color", &b.Color, 0, 1) {
		changed = true
	}
	if changed {
		p.brush = b.Clamped()
		t.SetBrush(p.brush)
	}
	return y
}

// flush sends pending kernel and smoother edits once the mouse is up. A
// dropped command stays pending for the next frame.
func (p *Panel) flush(t message.Target) {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		return
	}
	if p.kernelDirty {
		if err := p.kernel.Validate(); err != nil {
			slog.Warn("kernel edit rejected", "error", err)
			p.kernelDirty = false
		} else if t.Enqueue(pipeline.SetKernel(p.kernel)) {
			p.kernelDirty = false
		}
	}
	if p.smootherDirty {
		if err := p.smoother.Validate(); err != nil {
			slog.Warn("smoother edit rejected", "error", err)
			p.smootherDirty = false
		} else if t.Enqueue(pipeline.SetSmoother(p.smoother)) {
			p.smootherDirty = false
		}
	}
}

func (p *Panel) send(t message.Target, cmd pipeline.Command) {
	if !t.Enqueue(cmd) {
		slog.Warn("command dropped", "command", cmd.Name)
	}
}
