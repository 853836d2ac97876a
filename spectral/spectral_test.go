package spectral

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func randomField(rng *rand.Rand, n int) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = rng.Float64()
	}
	return f
}

func providers() []Provider {
	return []Provider{ProviderGonum, ProviderDSP}
}

func TestRoundTrip(t *testing.T) {
	sizes := []struct{ w, h int }{{8, 8}, {16, 8}, {32, 32}, {12, 10}}
	rng := rand.New(rand.NewSource(1))

	for _, p := range providers() {
		for _, sz := range sizes {
			tr, err := NewTransform(p, sz.w, sz.h)
			if err != nil {
				t.Fatalf("%s %dx%d: %v", p, sz.w, sz.h, err)
			}
			src := randomField(rng, sz.w*sz.h)
			spec := make([]complex128, SpectrumLen(sz.w, sz.h))
			out := make([]float64, sz.w*sz.h)

			tr.Forward(spec, src)
			tr.Inverse(out, spec)
			floats.Scale(1/float64(sz.w*sz.h), out)

			for i := range src {
				if math.Abs(out[i]-src[i]) > 1e-9*math.Max(1, math.Abs(src[i])) {
					t.Fatalf("%s %dx%d: cell %d = %v, want %v", p, sz.w, sz.h, i, out[i], src[i])
				}
			}
		}
	}
}

func TestInverse_DoesNotModifySource(t *testing.T) {
	for _, p := range providers() {
		tr, err := NewTransform(p, 8, 8)
		if err != nil {
			t.Fatal(err)
		}
		src := randomField(rand.New(rand.NewSource(2)), 64)
		spec := make([]complex128, SpectrumLen(8, 8))
		tr.Forward(spec, src)
		before := append([]complex128(nil), spec...)
		tr.Inverse(make([]float64, 64), spec)
		for i := range spec {
			if spec[i] != before[i] {
				t.Fatalf("%s: Inverse modified source at %d", p, i)
			}
		}
	}
}

func TestProvidersAgree(t *testing.T) {
	const w, h = 16, 8
	src := randomField(rand.New(rand.NewSource(3)), w*h)

	a, _ := NewPlan(w, h)
	b, _ := NewDSPPlan(w, h)
	sa := make([]complex128, SpectrumLen(w, h))
	sb := make([]complex128, SpectrumLen(w, h))
	a.Forward(sa, src)
	b.Forward(sb, src)

	for i := range sa {
		if cmplx.Abs(sa[i]-sb[i]) > 1e-9 {
			t.Fatalf("coefficient %d: gonum %v, dsp %v", i, sa[i], sb[i])
		}
	}
}

func TestForward_DCTerm(t *testing.T) {
	const w, h = 8, 4
	src := randomField(rand.New(rand.NewSource(4)), w*h)
	p, _ := NewPlan(w, h)
	spec := make([]complex128, SpectrumLen(w, h))
	p.Forward(spec, src)

	if got, want := real(spec[0]), floats.Sum(src); math.Abs(got-want) > 1e-9 {
		t.Errorf("DC = %v, want sum %v", got, want)
	}
}

// Circular convolution computed directly must match the spectral route.
func TestMultiply_MatchesCircularConvolution(t *testing.T) {
	const w, h = 8, 8
	rng := rand.New(rand.NewSource(5))
	field := randomField(rng, w*h)
	mask := make([]float64, w*h)
	mask[0] = 1
	mask[1] = 0.5
	mask[w] = 0.25
	mask[w*h-1] = 0.75
	weight := floats.Sum(mask)

	p, _ := NewPlan(w, h)
	fs := make([]complex128, SpectrumLen(w, h))
	ms := make([]complex128, SpectrumLen(w, h))
	p.Forward(fs, field)
	p.Forward(ms, mask)
	Multiply(fs, fs, ms, 1/weight)
	got := make([]float64, w*h)
	p.Inverse(got, fs)
	floats.Scale(1/float64(w*h), got)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for my := 0; my < h; my++ {
				for mx := 0; mx < w; mx++ {
					sx := (x - mx + w) % w
					sy := (y - my + h) % h
					sum += mask[my*w+mx] * field[sy*w+sx]
				}
			}
			want := sum / weight
			if math.Abs(got[y*w+x]-want) > 1e-9 {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got[y*w+x], want)
			}
		}
	}
}

func TestNewTransform_Errors(t *testing.T) {
	if _, err := NewTransform(ProviderGonum, 1, 8); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("1x8: err = %v, want ErrUnsupportedSize", err)
	}
	if _, err := NewTransform(ProviderDSP, 8, 0); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("8x0: err = %v, want ErrUnsupportedSize", err)
	}
	if _, err := NewTransform("fftw", 8, 8); err == nil {
		t.Error("unknown provider: expected error")
	}
}

func TestMultiply_LengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Multiply(make([]complex128, 2), make([]complex128, 3), make([]complex128, 2), 1)
}
