package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is the gonum-backed transform: a real FFT along rows followed by a
// complex FFT along the kept columns.
type Plan struct {
	w, h  int
	halfW int

	rows *fourier.FFT
	cols *fourier.CmplxFFT

	rowBuf  []complex128
	realBuf []float64
	colIn   []complex128
	colOut  []complex128
	spec    []complex128
}

// NewPlan creates a gonum plan for a w x h grid.
func NewPlan(w, h int) (*Plan, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	hw := HalfWidth(w)
	return &Plan{
		w:       w,
		h:       h,
		halfW:   hw,
		rows:    fourier.NewFFT(w),
		cols:    fourier.NewCmplxFFT(h),
		rowBuf:  make([]complex128, hw),
		realBuf: make([]float64, w),
		colIn:   make([]complex128, h),
		colOut:  make([]complex128, h),
		spec:    make([]complex128, SpectrumLen(w, h)),
	}, nil
}

// Size returns the grid dimensions.
func (p *Plan) Size() (int, int) { return p.w, p.h }

// Forward computes the half-spectrum of src.
func (p *Plan) Forward(dst []complex128, src []float64) {
	checkLens(p.w, p.h, src, dst)

	for y := 0; y < p.h; y++ {
		p.rows.Coefficients(p.rowBuf, src[y*p.w:(y+1)*p.w])
		copy(dst[y*p.halfW:(y+1)*p.halfW], p.rowBuf)
	}

	for x := 0; x < p.halfW; x++ {
		for y := 0; y < p.h; y++ {
			p.colIn[y] = dst[y*p.halfW+x]
		}
		p.cols.Coefficients(p.colOut, p.colIn)
		for y := 0; y < p.h; y++ {
			dst[y*p.halfW+x] = p.colOut[y]
		}
	}
}

// Inverse computes the unnormalized real field for the half-spectrum src.
func (p *Plan) Inverse(dst []float64, src []complex128) {
	checkLens(p.w, p.h, dst, src)

	// Column pass works on a scratch spectrum so src stays intact.
	tmp := p.spec
	for x := 0; x < p.halfW; x++ {
		for y := 0; y < p.h; y++ {
			p.colIn[y] = src[y*p.halfW+x]
		}
		p.cols.Sequence(p.colOut, p.colIn)
		for y := 0; y < p.h; y++ {
			tmp[y*p.halfW+x] = p.colOut[y]
		}
	}

	for y := 0; y < p.h; y++ {
		copy(p.rowBuf, tmp[y*p.halfW:(y+1)*p.halfW])
		p.rows.Sequence(p.realBuf, p.rowBuf)
		copy(dst[y*p.w:(y+1)*p.w], p.realBuf)
	}
}
