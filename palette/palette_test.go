package palette

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/smoothlife/config"
)

func TestIndexClamps(t *testing.T) {
	p := New(WhiteOnBlack{})
	tests := []struct {
		v    float64
		want uint8
	}{
		{-1, 0},
		{math.NaN(), 0},
		{0, 0},
		{2, 254},
		{1, 254},
	}
	for _, tt := range tests {
		if got := p.Color(tt.v).R; got != tt.want {
			t.Errorf("Color(%v).R = %d, want %d", tt.v, got, tt.want)
		}
	}
	if len(p.Colors()) != Size {
		t.Errorf("len(Colors()) = %d", len(p.Colors()))
	}
}

func TestBlackOnWhite(t *testing.T) {
	p := New(BlackOnWhite{})
	if c := p.Color(0); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Color(0) = %v, want white", c)
	}
	if c := p.Color(0.999); c.R > 2 {
		t.Errorf("Color(0.999) = %v, want near black", c)
	}
}

func TestLabIsOpaqueAndBrightens(t *testing.T) {
	p := New(Lab{C: 0.3})
	luma := func(c color.RGBA) float64 {
		return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
	}
	lo, hi := p.Color(0.05), p.Color(0.95)
	if lo.A != 255 || hi.A != 255 {
		t.Error("lab palette not opaque")
	}
	if luma(hi) <= luma(lo) {
		t.Errorf("lab palette does not brighten: %v -> %v", lo, hi)
	}
}

func TestGradient(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	stops := []Stop{{blue, 0.75}, {red, 0.25}}

	g := NewGradient(stops, false)
	tests := []struct {
		v    float64
		want color.RGBA
	}{
		{0, red},
		{0.25, red},
		{0.5, color.RGBA{128, 0, 128, 255}},
		{0.75, blue},
		{1, blue},
	}
	for _, tt := range tests {
		if got := g.Color(tt.v); got != tt.want {
			t.Errorf("Color(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}

	// Repeating wraps 0.85 to 0.35 and 0.05 to 0.55.
	r := NewGradient(stops, true)
	if got, want := r.Color(0.85), g.Color(0.35); got != want {
		t.Errorf("repeating Color(0.85) = %v, want %v", got, want)
	}
	if got, want := r.Color(0.05), g.Color(0.55); got != want {
		t.Errorf("repeating Color(0.05) = %v, want %v", got, want)
	}

	if got := NewGradient(nil, false).Color(0.5); got != (color.RGBA{A: 255}) {
		t.Errorf("empty gradient = %v, want black", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1b3a6b")
	if err != nil || c != (color.RGBA{0x1b, 0x3a, 0x6b, 255}) {
		t.Errorf("ParseHex = %v, %v", c, err)
	}
	for _, s := range []string{"1b3a6b", "#123", "#zzzzzz", ""} {
		if _, err := ParseHex(s); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseHex(%q) error = %v, want ErrBadColor", s, err)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	p, err := FromConfig(cfg.Palette)
	if err != nil {
		t.Fatalf("FromConfig(defaults): %v", err)
	}
	if c := p.Color(0); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("default gradient starts at %v, want black", c)
	}

	for _, kind := range []string{"white_on_black", "black_on_white", "lab"} {
		if _, err := FromConfig(config.PaletteConfig{Kind: kind}); err != nil {
			t.Errorf("FromConfig(%s): %v", kind, err)
		}
	}
	if _, err := FromConfig(config.PaletteConfig{Kind: "plaid"}); err == nil {
		t.Error("expected error for unknown kind")
	}
	bad := config.PaletteConfig{Stops: []config.PaletteStop{{Color: "red"}}}
	if _, err := FromConfig(bad); !errors.Is(err, ErrBadColor) {
		t.Errorf("bad stop error = %v", err)
	}
}
