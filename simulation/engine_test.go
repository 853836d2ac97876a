package simulation

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/sigmoid"
	"github.com/pthm-cable/smoothlife/spectral"
	"github.com/pthm-cable/smoothlife/transition"
)

func testSmoother() transition.Config {
	return transition.Config{
		Timestep: transition.TimestepConfig{Type: transition.Discrete, DT: 0.1},
		B1:       0.278, D1: 0.267, B2: 0.365, D2: 0.445,
		Mode:    transition.Mode4,
		Sigmoid: sigmoid.FamilySmooth,
		Mix:     sigmoid.FamilySmooth,
		SN:      0.028,
		SM:      0.147,
	}
}

func newTestEngine(t *testing.T, w, h int) *Engine {
	t.Helper()
	e, err := New(Config{
		Width:    w,
		Height:   h,
		Kernel:   kernel.Config{DiscRadius: 3, RingRadius: 9, BlendRadius: 1},
		Smoother: testSmoother(),
		Seed:     7,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func checkUnitField(t *testing.T, field []float64) {
	t.Helper()
	for i, v := range field {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			t.Fatalf("field[%d] = %v, want finite value in [0,1]", i, v)
		}
	}
}

func TestStep_ZeroFieldStaysInRange(t *testing.T) {
	modes := []transition.Mode{transition.Mode1, transition.Mode2, transition.Mode3, transition.Mode4}
	timesteps := []transition.Timestep{transition.Discrete, transition.Smooth1, transition.Smooth2, transition.Smooth3, transition.Smooth4}

	e := newTestEngine(t, 32, 32)
	for _, mode := range modes {
		for _, ts := range timesteps {
			cfg := testSmoother()
			cfg.Mode = mode
			cfg.Timestep.Type = ts
			if err := e.SetSmoother(cfg); err != nil {
				t.Fatalf("SetSmoother: %v", err)
			}
			e.Clear(0)
			for range 3 {
				if err := e.Step(); err != nil {
					t.Fatalf("Step: %v", err)
				}
			}
			checkUnitField(t, e.Field())
		}
	}
}

func TestStep_SplatStaysInRange(t *testing.T) {
	for _, p := range []spectral.Provider{spectral.ProviderGonum, spectral.ProviderDSP} {
		e, err := New(Config{
			Width: 64, Height: 64,
			Kernel:   kernel.Config{DiscRadius: 4, RingRadius: 12, BlendRadius: 1},
			Smoother: testSmoother(),
			Provider: p,
			Seed:     1,
		})
		if err != nil {
			t.Fatalf("%s: New: %v", p, err)
		}
		e.Splat()
		for range 5 {
			if err := e.Step(); err != nil {
				t.Fatalf("%s: Step: %v", p, err)
			}
		}
		checkUnitField(t, e.Field())
	}
}

// A uniform field convolves to the same uniform averages.
func TestStep_UniformFieldAverages(t *testing.T) {
	e := newTestEngine(t, 32, 32)
	cfg := testSmoother()
	cfg.Timestep = transition.TimestepConfig{Type: transition.Smooth4, DT: 0}
	if err := e.SetSmoother(cfg); err != nil {
		t.Fatal(err)
	}
	e.Clear(0.6)
	if err := e.Step(); err != nil {
		t.Fatal(err)
	}
	// Smooth4 with dt 0 yields the self average.
	for i, v := range e.Field() {
		if math.Abs(v-0.6) > 1e-9 {
			t.Fatalf("cell %d = %v, want 0.6", i, v)
		}
	}
}

func TestClear(t *testing.T) {
	e := newTestEngine(t, 16, 16)
	e.Clear(0.25)
	if floats.Min(e.Field()) != 0.25 || floats.Max(e.Field()) != 0.25 {
		t.Errorf("Clear(0.25): min %v max %v", floats.Min(e.Field()), floats.Max(e.Field()))
	}
}

// reference sets cells by brute-force toroidal distance over all 9 images.
func reference(w, h int, x, y, r, color float64) []float64 {
	out := make([]float64, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			best := math.Inf(1)
			for _, oy := range []float64{-float64(h), 0, float64(h)} {
				for _, ox := range []float64{-float64(w), 0, float64(w)} {
					dx := x + ox - float64(i)
					dy := y + oy - float64(j)
					best = math.Min(best, dx*dx+dy*dy)
				}
			}
			if best < r*r {
				out[j*w+i] = color
			}
		}
	}
	return out
}

func TestDrawFilledCircle_MatchesToroidalReference(t *testing.T) {
	tests := []struct {
		name    string
		x, y, r float64
	}{
		{"interior", 8, 8, 3},
		{"near origin", 1, 1, 2},
		{"origin", 0, 0, 2},
		{"corner fractional", 15.5, 0.25, 3.3},
		{"negative coords", -1, -2, 2.5},
		{"beyond width", 18, 3, 2},
		{"large", 4, 12, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 16, 16)
			e.DrawFilledCircle(tt.x, tt.y, tt.r, 1)
			want := reference(16, 16, tt.x, tt.y, tt.r, 1)
			for i := range want {
				if e.Field()[i] != want[i] {
					t.Fatalf("cell (%d,%d) = %v, want %v", i%16, i/16, e.Field()[i], want[i])
				}
			}
		})
	}
}

func TestDrawFilledCircle_WrapsAcrossCorner(t *testing.T) {
	e := newTestEngine(t, 16, 16)
	e.DrawFilledCircle(1, 1, 2.5, 1)
	f := e.Field()
	at := func(x, y int) float64 { return f[y*16+x] }

	if at(1, 1) != 1 || at(0, 0) != 1 {
		t.Error("cells near (1,1) not set")
	}
	if at(15, 1) != 1 || at(1, 15) != 1 || at(15, 0) != 1 {
		t.Error("wrapped cells across edges not set")
	}
	// (15,15) is (-1,-1): squared distance 8 >= 6.25.
	if at(15, 15) != 0 {
		t.Error("(15,15) set but lies outside radius")
	}
	if at(4, 1) != 0 {
		t.Error("(4,1) set but lies outside radius")
	}
}

func TestSplat(t *testing.T) {
	e := newTestEngine(t, 64, 64)
	e.Splat()
	f := e.Field()
	if floats.Max(f) != 1 {
		t.Error("splat drew nothing")
	}
	for _, v := range f {
		if v != 0 && v != 1 {
			t.Fatalf("splat wrote %v, want 0 or 1", v)
		}
	}

	// Same seed, same field.
	e2 := newTestEngine(t, 64, 64)
	e2.Splat()
	if !floats.Equal(f, e2.Field()) {
		t.Error("splat not reproducible for equal seeds")
	}
}

func TestSplatCount(t *testing.T) {
	tests := []struct {
		w, h int
		ra   float64
		want int
	}{
		{512, 512, 12, 456},
		{16, 16, 12, 2},
		{8, 8, 0, 64},
	}
	for _, tt := range tests {
		if got := SplatCount(tt.w, tt.h, tt.ra); got != tt.want {
			t.Errorf("SplatCount(%d,%d,%v) = %d, want %d", tt.w, tt.h, tt.ra, got, tt.want)
		}
	}
}

func TestSetKernel_Degenerate(t *testing.T) {
	e := newTestEngine(t, 16, 16)
	err := e.SetKernel(kernel.Config{DiscRadius: 2})
	if !errors.Is(err, kernel.ErrDegenerate) {
		t.Fatalf("err = %v, want ErrDegenerate", err)
	}
	if err := e.Step(); !errors.Is(err, kernel.ErrDirty) {
		t.Errorf("Step after failed kernel build: err = %v, want ErrDirty", err)
	}
}

func TestNew_UnsupportedSize(t *testing.T) {
	_, err := New(Config{Width: 1, Height: 16, Kernel: kernel.Config{DiscRadius: 1, RingRadius: 3, BlendRadius: 1}, Smoother: testSmoother()})
	if !errors.Is(err, spectral.ErrUnsupportedSize) {
		t.Errorf("err = %v, want ErrUnsupportedSize", err)
	}
}

func TestViewTransition_LeavesFieldIntact(t *testing.T) {
	e := newTestEngine(t, 32, 32)
	e.Clear(0.5)
	p, err := e.ViewTransition()
	if err != nil {
		t.Fatal(err)
	}
	if floats.Min(e.Field()) != 0.5 || floats.Max(e.Field()) != 0.5 {
		t.Error("ViewTransition modified field")
	}
	if floats.Max(p) <= 0 {
		t.Error("preview empty")
	}
}

func TestMasks(t *testing.T) {
	e := newTestEngine(t, 32, 32)
	ring, rw, err := e.RingMask()
	if err != nil {
		t.Fatal(err)
	}
	disc, dw, err := e.DiscMask()
	if err != nil {
		t.Fatal(err)
	}
	if floats.Sum(ring) != rw || floats.Sum(disc) != dw {
		t.Errorf("weights %v/%v do not match sums %v/%v", rw, dw, floats.Sum(ring), floats.Sum(disc))
	}
}
