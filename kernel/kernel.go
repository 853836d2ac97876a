// Package kernel builds the ring and disc convolution masks and their
// spectra.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/smoothlife/sigmoid"
)

var (
	// ErrDirty is returned by accessors when the kernel has not been built
	// for its current configuration.
	ErrDirty = errors.New("kernel: not built for current config")
	// ErrDegenerate is returned when a mask has zero total weight.
	ErrDegenerate = errors.New("kernel: degenerate mask weight")
)

// Config holds the three kernel radii in grid units.
type Config struct {
	DiscRadius  float64 `yaml:"disc_radius"`
	RingRadius  float64 `yaml:"ring_radius"`
	BlendRadius float64 `yaml:"blend_radius"`
}

// Validate rejects negative or non-finite radii.
func (c Config) Validate() error {
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"disc_radius", c.DiscRadius},
		{"ring_radius", c.RingRadius},
		{"blend_radius", c.BlendRadius},
	} {
		if math.IsNaN(r.v) || math.IsInf(r.v, 0) || r.v < 0 {
			return fmt.Errorf("kernel: invalid %s %v", r.name, r.v)
		}
	}
	return nil
}

// Extent is the half-width of the box outside which both masks are exactly
// zero.
func (c Config) Extent() int {
	r := math.Max(2*c.RingRadius, math.Max(c.DiscRadius, c.RingRadius)+c.BlendRadius/2)
	return int(math.Ceil(r)) + 1
}

// Masks holds the real ring and disc masks for a grid, origin at cell 0 with
// toroidal wrap.
type Masks struct {
	Width, Height int

	Ring []float64
	Disc []float64

	RingWeight float64
	DiscWeight float64
}

// BuildMasks evaluates both masks on a w x h grid. It returns ErrDegenerate
// if either mask sums to zero.
func BuildMasks(cfg Config, w, h int) (*Masks, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Masks{
		Width:  w,
		Height: h,
		Ring:   make([]float64, w*h),
		Disc:   make([]float64, w*h),
	}

	ext := cfg.Extent()
	bb := cfg.BlendRadius
	for iy := 0; iy < h; iy++ {
		y := fold(iy, h)
		if y < -ext || y > ext {
			continue
		}
		for ix := 0; ix < w; ix++ {
			x := fold(ix, w)
			if x < -ext || x > ext {
				continue
			}
			l := math.Hypot(float64(x), float64(y))
			inner := sigmoid.Ramp(l, cfg.DiscRadius, bb)
			m.Disc[iy*w+ix] = 1 - inner
			m.Ring[iy*w+ix] = inner * (1 - sigmoid.Ramp(l, cfg.RingRadius, bb))
		}
	}

	m.RingWeight = floats.Sum(m.Ring)
	m.DiscWeight = floats.Sum(m.Disc)
	if m.RingWeight <= 0 || m.DiscWeight <= 0 {
		return m, fmt.Errorf("%w: ring=%v disc=%v (%+v)", ErrDegenerate, m.RingWeight, m.DiscWeight, cfg)
	}
	return m, nil
}

// fold maps an index in [0,n) to the signed offset in [-n/2, n/2).
func fold(i, n int) int {
	if i < n/2 {
		return i
	}
	return i - n
}

// Center copies a w x h mask into dst with cell (0, 0) moved to the middle,
// for display.
func Center(dst, src []float64, w, h int) {
	for y := range h {
		row := ((y + h/2) % h) * w
		for x := range w {
			dst[row+(x+w/2)%w] = src[y*w+x]
		}
	}
}
