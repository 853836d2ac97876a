package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// DSPPlan computes the same half-spectrum as Plan using go-dsp. go-dsp's
// inverse is normalized, so results are rescaled to match Plan.
type DSPPlan struct {
	w, h  int
	halfW int

	row  []float64
	full []complex128
	col  []complex128
	spec []complex128
}

// NewDSPPlan creates a go-dsp plan for a w x h grid.
func NewDSPPlan(w, h int) (*DSPPlan, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	return &DSPPlan{
		w:     w,
		h:     h,
		halfW: HalfWidth(w),
		row:   make([]float64, w),
		full:  make([]complex128, w),
		col:   make([]complex128, h),
		spec:  make([]complex128, SpectrumLen(w, h)),
	}, nil
}

// Size returns the grid dimensions.
func (p *DSPPlan) Size() (int, int) { return p.w, p.h }

// Forward computes the half-spectrum of src.
func (p *DSPPlan) Forward(dst []complex128, src []float64) {
	checkLens(p.w, p.h, src, dst)

	for y := 0; y < p.h; y++ {
		copy(p.row, src[y*p.w:(y+1)*p.w])
		coeffs := fft.FFTReal(p.row)
		copy(dst[y*p.halfW:(y+1)*p.halfW], coeffs[:p.halfW])
	}

	for x := 0; x < p.halfW; x++ {
		for y := 0; y < p.h; y++ {
			p.col[y] = dst[y*p.halfW+x]
		}
		out := fft.FFT(p.col)
		for y := 0; y < p.h; y++ {
			dst[y*p.halfW+x] = out[y]
		}
	}
}

// Inverse computes the unnormalized real field for the half-spectrum src.
func (p *DSPPlan) Inverse(dst []float64, src []complex128) {
	checkLens(p.w, p.h, dst, src)

	hs := complex(float64(p.h), 0)
	for x := 0; x < p.halfW; x++ {
		for y := 0; y < p.h; y++ {
			p.col[y] = src[y*p.halfW+x]
		}
		out := fft.IFFT(p.col)
		for y := 0; y < p.h; y++ {
			p.spec[y*p.halfW+x] = out[y] * hs
		}
	}

	// Rebuild each full row from its Hermitian half.
	ws := float64(p.w)
	for y := 0; y < p.h; y++ {
		half := p.spec[y*p.halfW : (y+1)*p.halfW]
		for k := 0; k < p.w; k++ {
			if k < p.halfW {
				p.full[k] = half[k]
			} else {
				p.full[k] = cmplx.Conj(half[p.w-k])
			}
		}
		out := fft.IFFT(p.full)
		for x := 0; x < p.w; x++ {
			dst[y*p.w+x] = real(out[x]) * ws
		}
	}
}
