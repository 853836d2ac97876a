package gpu

import "fmt"

// Transform signs.
const (
	Forward float32 = -1
	Inverse float32 = 1
)

// FFT records unnormalized 2D complex transforms as butterfly passes: all
// row stages, then all column stages.
type FFT struct {
	w, h     int
	rowPlans []Texture
	colPlans []Texture
	scratch  [2]Texture
}

// newFFT allocates plan and scratch textures from alloc and records their
// creation into setup.
func newFFT(setup *TaskList, alloc func() Texture, w, h int) (*FFT, error) {
	rows, err := Stages(w)
	if err != nil {
		return nil, fmt.Errorf("row plan: %w", err)
	}
	cols, err := Stages(h)
	if err != nil {
		return nil, fmt.Errorf("column plan: %w", err)
	}

	f := &FFT{w: w, h: h}
	for _, stage := range rows {
		t := alloc()
		setup.Create(t, w, 1)
		setup.Upload(t, stage)
		f.rowPlans = append(f.rowPlans, t)
	}
	for _, stage := range cols {
		t := alloc()
		setup.Create(t, h, 1)
		setup.Upload(t, stage)
		f.colPlans = append(f.colPlans, t)
	}
	for i := range f.scratch {
		f.scratch[i] = alloc()
		setup.Create(f.scratch[i], w, h)
	}
	return f, nil
}

// Passes returns the number of butterfly passes per transform.
func (f *FFT) Passes() int { return len(f.rowPlans) + len(f.colPlans) }

// Record appends the transform of src into dst. src and dst may be the
// same texture; neither may be a scratch texture.
func (f *FFT) Record(l *TaskList, dst, src Texture, sign float32) {
	total := f.Passes()
	k := 0
	emit := func(plan Texture, vertical bool) {
		in := src
		if k > 0 {
			in = f.scratch[(k-1)%2]
		}
		out := f.scratch[k%2]
		if k == total-1 {
			out = dst
		}
		l.Pass(Butterfly{Dst: out, Src: in, Plan: plan, Vertical: vertical, Sign: sign})
		k++
	}
	for _, p := range f.rowPlans {
		emit(p, false)
	}
	for _, p := range f.colPlans {
		emit(p, true)
	}
}
