// Package spectral implements periodic 2D transforms of real fields and the
// pointwise spectral multiply used for convolution.
//
// Spectra are stored as half-spectra: H rows of W/2+1 complex coefficients in
// row-major order. Inverse transforms are unnormalized; callers scale by
// 1/(W*H).
package spectral

import (
	"errors"
	"fmt"
)

// ErrUnsupportedSize is returned when a plan cannot be created for a grid.
var ErrUnsupportedSize = errors.New("spectral: unsupported grid size")

// Provider names a transform implementation.
type Provider string

const (
	ProviderGonum Provider = "gonum"
	ProviderDSP   Provider = "dsp"
)

// Transform is a forward/inverse pair for a fixed W x H real grid.
// Implementations hold scratch buffers and are not safe for concurrent use.
type Transform interface {
	// Size returns the real grid dimensions.
	Size() (w, h int)
	// Forward writes the half-spectrum of src into dst.
	Forward(dst []complex128, src []float64)
	// Inverse writes the unnormalized real field of src into dst. src is not
	// modified.
	Inverse(dst []float64, src []complex128)
}

// HalfWidth is the number of complex columns kept for a real row of width w.
func HalfWidth(w int) int {
	return w/2 + 1
}

// SpectrumLen is the length of a half-spectrum for a W x H grid.
func SpectrumLen(w, h int) int {
	return HalfWidth(w) * h
}

// NewTransform creates a plan using the named provider.
func NewTransform(p Provider, w, h int) (Transform, error) {
	switch p {
	case ProviderGonum, "":
		return NewPlan(w, h)
	case ProviderDSP:
		return NewDSPPlan(w, h)
	default:
		return nil, fmt.Errorf("unknown transform provider %q", p)
	}
}

func checkSize(w, h int) error {
	if w < 2 || h < 2 {
		return fmt.Errorf("%w: %dx%d", ErrUnsupportedSize, w, h)
	}
	return nil
}

func checkLens(w, h int, real []float64, spec []complex128) {
	if len(real) != w*h {
		panic(fmt.Sprintf("spectral: real buffer length %d, want %d", len(real), w*h))
	}
	if len(spec) != SpectrumLen(w, h) {
		panic(fmt.Sprintf("spectral: spectrum length %d, want %d", len(spec), SpectrumLen(w, h)))
	}
}
