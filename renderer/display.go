package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/smoothlife/gpu"
	"github.com/pthm-cable/smoothlife/palette"
)

// DisplayView executes queued GPU task lists on a GLDevice and draws the
// display texture through a palette shader.
type DisplayView struct {
	*gpu.Presenter
	dev *GLDevice
	w   int
	h   int

	shader     rl.Shader
	paletteLoc int32
	paletteTex rl.Texture2D

	screenW, screenH int32
}

// NewDisplayView wraps presenter, which must execute on dev.
func NewDisplayView(presenter *gpu.Presenter, dev *GLDevice, w, h int, screenW, screenH int32, pal *palette.Palette) (*DisplayView, error) {
	vs, err := shaderFS.ReadFile("shaders/palette.vs")
	if err != nil {
		return nil, err
	}
	fs, err := shaderFS.ReadFile("shaders/palette.fs")
	if err != nil {
		return nil, err
	}
	v := &DisplayView{
		Presenter: presenter,
		dev:       dev,
		w:         w,
		h:         h,
		screenW:   screenW,
		screenH:   screenH,
	}
	v.shader = rl.LoadShaderFromMemory(string(vs), string(fs))
	v.paletteLoc = rl.GetShaderLocation(v.shader, "palette")

	img := rl.GenImageColor(palette.Size, 1, rl.Black)
	v.paletteTex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(v.paletteTex, rl.FilterPoint)
	rl.UnloadImage(img)
	v.SetPalette(pal)
	return v, nil
}

// Present runs pending task lists and hands the context back to raylib.
func (v *DisplayView) Present() error {
	err := v.Presenter.Present()
	v.dev.Restore(v.screenW, v.screenH)
	return err
}

func (v *DisplayView) SetPalette(p *palette.Palette) {
	rl.UpdateTexture(v.paletteTex, p.Colors())
}

func (v *DisplayView) Draw(src, dst rl.Rectangle) {
	if !v.Ready() {
		return
	}
	tex := rl.Texture2D{
		ID:      v.dev.TextureID(v.Display()),
		Width:   int32(v.w),
		Height:  int32(v.h),
		Mipmaps: 1,
		Format:  rl.UncompressedR32g32b32a32,
	}
	rl.BeginShaderMode(v.shader)
	rl.SetShaderValueTexture(v.shader, v.paletteLoc, v.paletteTex)
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
}

func (v *DisplayView) Snapshot() (int, int, []float64, error) {
	w, h, values, err := v.Presenter.Snapshot()
	v.dev.Restore(v.screenW, v.screenH)
	return w, h, values, err
}

// Close unloads the shader and releases the device.
func (v *DisplayView) Close() error {
	rl.UnloadShader(v.shader)
	rl.UnloadTexture(v.paletteTex)
	return v.Presenter.Close()
}
