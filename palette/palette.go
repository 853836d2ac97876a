// Package palette maps field values in [0, 1] to display colors through a
// 512-entry lookup table.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/pthm-cable/smoothlife/config"
)

// Size is the number of lookup table entries.
const Size = 512

// ErrBadColor is returned for colors that are not #rrggbb.
var ErrBadColor = errors.New("palette: bad color")

// Generator produces the color for a value in [0, 1).
type Generator interface {
	Color(v float64) color.RGBA
}

// Palette is a baked lookup table.
type Palette struct {
	lut [Size]color.RGBA
}

// New bakes g into a lookup table.
func New(g Generator) *Palette {
	p := &Palette{}
	for i := range p.lut {
		p.lut[i] = g.Color(float64(i) / Size)
	}
	return p
}

// Color returns the entry for v. Values outside [0, 1] clamp to the ends.
func (p *Palette) Color(v float64) color.RGBA {
	return p.lut[index(v)]
}

func index(v float64) int {
	if !(v > 0) {
		return 0
	}
	return min(int(v*Size), Size-1)
}

// Colors returns the table.
func (p *Palette) Colors() []color.RGBA { return p.lut[:] }

// Apply maps values into dst, which must be at least as long.
func (p *Palette) Apply(dst []color.RGBA, values []float64) {
	for i, v := range values {
		dst[i] = p.lut[index(v)]
	}
}

// WhiteOnBlack maps 0 to black and 1 to white.
type WhiteOnBlack struct{}

func (WhiteOnBlack) Color(v float64) color.RGBA {
	g := uint8(255 * v)
	return color.RGBA{g, g, g, 255}
}

// BlackOnWhite maps 0 to white and 1 to black.
type BlackOnWhite struct{}

func (BlackOnWhite) Color(v float64) color.RGBA {
	g := uint8(255 * (1 - v))
	return color.RGBA{g, g, g, 255}
}

// Lab walks a hue arc in L*a*b* space chosen by C, rising in lightness
// and chroma with v.
type Lab struct {
	C float64
}

func (l Lab) Color(v float64) color.RGBA {
	L := v*0.61 + 0.09
	angle := math.Pi/3 - l.C*2*math.Pi
	r := v*0.311 + 0.125
	return labToRGB(L, math.Sin(angle)*r, math.Cos(angle)*r)
}

// labToRGB converts scaled L*a*b* (L in [0, 1]) under a D50 white point.
func labToRGB(l, a, b float64) color.RGBA {
	sl := (l + 0.16) / 1.16
	x := 0.9643 * labInv(sl+a/5)
	y := 1.00 * labInv(sl)
	z := 0.8251 * labInv(sl-b/2)

	rl := 3.2406*x - 1.5372*y - 0.4986*z
	gl := -0.9689*x + 1.8758*y + 0.0415*z
	bl := 0.0557*x - 0.2040*y + 1.0570*z
	return color.RGBA{srgb(rl), srgb(gl), srgb(bl), 255}
}

func labInv(t float64) float64 {
	const d = 6.0 / 29.0
	if t > d {
		return t * t * t
	}
	return 3 * d * d * (t - 4.0/29.0)
}

func srgb(c float64) uint8 {
	c = max(0, min(c, 1))
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return uint8(255 * c)
}

// Stop is a gradient color at a position in [0, 1].
type Stop struct {
	Color    color.RGBA
	Position float64
}

// Gradient interpolates linearly between stops. A repeating gradient wraps
// values past the last stop back to the first; otherwise the end colors
// extend.
type Gradient struct {
	stops     []Stop
	repeating bool
}

// NewGradient sorts stops by position. With no stops it is black.
func NewGradient(stops []Stop, repeating bool) *Gradient {
	s := slices.Clone(stops)
	slices.SortStableFunc(s, func(a, b Stop) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	return &Gradient{stops: s, repeating: repeating}
}

func (g *Gradient) Color(v float64) color.RGBA {
	n := len(g.stops)
	switch n {
	case 0:
		return color.RGBA{A: 255}
	case 1:
		return g.stops[0].Color
	}

	first, last := g.stops[0].Position, g.stops[n-1].Position
	if g.repeating && last > first {
		v = first + math.Mod(v-first, last-first)
		if v < first {
			v += last - first
		}
	}
	if v <= first {
		return g.stops[0].Color
	}
	if v >= last {
		return g.stops[n-1].Color
	}

	i := 1
	for g.stops[i].Position < v {
		i++
	}
	a, b := g.stops[i-1], g.stops[i]
	t := 0.0
	if span := b.Position - a.Position; span > 0 {
		t = (v - a.Position) / span
	}
	return lerp(a.Color, b.Color, t)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// ParseHex parses #rrggbb into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok || len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 255}, nil
}

// FromConfig builds the configured palette. Stop positions are percent.
func FromConfig(c config.PaletteConfig) (*Palette, error) {
	switch c.Kind {
	case "white_on_black":
		return New(WhiteOnBlack{}), nil
	case "black_on_white":
		return New(BlackOnWhite{}), nil
	case "lab":
		return New(Lab{C: c.LabC}), nil
	case "gradient", "":
		stops := make([]Stop, 0, len(c.Stops))
		for _, s := range c.Stops {
			col, err := ParseHex(s.Color)
			if err != nil {
				return nil, err
			}
			stops = append(stops, Stop{Color: col, Position: s.Position / 100})
		}
		return New(NewGradient(stops, c.Repeating)), nil
	}
	return nil, fmt.Errorf("palette: unknown kind %q", c.Kind)
}
