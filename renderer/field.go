package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/palette"
	"github.com/pthm-cable/smoothlife/pipeline"
)

// FieldView colors CPU frames through the palette and streams them into a
// texture.
type FieldView struct {
	frames *pipeline.FrameView
	pal    *palette.Palette

	tex         rl.Texture2D
	texW, texH  int
	pixels      []color.RGBA
	initialized bool
}

// NewFieldView reads frames from src. The texture is created lazily on the
// first frame, so the window must exist by the first Present.
func NewFieldView(src *pipeline.SharedBuffer[pipeline.Frame], pal *palette.Palette) *FieldView {
	v := &FieldView{pal: pal}
	v.frames = pipeline.NewFrameView(src, v.upload)
	return v
}

func (v *FieldView) init(w, h int) {
	if v.initialized {
		rl.UnloadTexture(v.tex)
	}
	v.texW, v.texH = w, h
	img := rl.GenImageColor(w, h, rl.Black)
	v.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(v.tex, rl.FilterPoint)
	rl.SetTextureWrap(v.tex, rl.WrapRepeat)
	rl.UnloadImage(img)
	v.pixels = make([]color.RGBA, w*h)
	v.initialized = true
}

func (v *FieldView) upload(f *pipeline.Frame) error {
	if f.Width < 1 || f.Height < 1 || len(f.Values) != f.Width*f.Height {
		return nil
	}
	if !v.initialized || f.Width != v.texW || f.Height != v.texH {
		v.init(f.Width, f.Height)
	}
	v.pal.Apply(v.pixels, f.Values)
	rl.UpdateTexture(v.tex, v.pixels)
	return nil
}

func (v *FieldView) Present() error { return v.frames.Present() }

// SetPalette recolors the current frame immediately.
func (v *FieldView) SetPalette(p *palette.Palette) {
	v.pal = p
	if v.initialized {
		_ = v.upload(v.frames.Frame())
	}
}

func (v *FieldView) Draw(src, dst rl.Rectangle) {
	if !v.initialized {
		return
	}
	rl.DrawTexturePro(v.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

func (v *FieldView) Snapshot() (int, int, []float64, error) { return v.frames.Snapshot() }

// Close frees the texture.
func (v *FieldView) Close() error {
	if v.initialized {
		rl.UnloadTexture(v.tex)
		v.initialized = false
	}
	return v.frames.Close()
}
