package transition

import "fmt"

// Apply advances field in place. n and m hold the raw neighbor and self
// averages; each is multiplied by scale before lookup, so an unnormalized
// inverse transform can be passed with scale = 1/(W*H).
//
// Smooth1 and Smooth2 step from the previous field value. Smooth3 and Smooth4
// step from the self average.
func (t *Table) Apply(field, n, m []float64, scale float64) {
	if len(n) != len(field) || len(m) != len(field) {
		panic(fmt.Sprintf("transition: apply length mismatch %d, %d, %d", len(field), len(n), len(m)))
	}
	dt := t.cfg.Timestep.DT

	switch t.cfg.Timestep.Type {
	case Smooth1:
		for i := range field {
			f := t.At(n[i]*scale, m[i]*scale)
			field[i] = clamp01(field[i] + dt*(2*f-1))
		}
	case Smooth2:
		for i := range field {
			f := t.At(n[i]*scale, m[i]*scale)
			field[i] = clamp01(field[i] + dt*(f-field[i]))
		}
	case Smooth3:
		for i := range field {
			am := m[i] * scale
			f := t.At(n[i]*scale, am)
			field[i] = clamp01(am + dt*(2*f-1))
		}
	case Smooth4:
		for i := range field {
			am := m[i] * scale
			f := t.At(n[i]*scale, am)
			field[i] = clamp01(am + dt*(f-am))
		}
	default:
		for i := range field {
			field[i] = t.At(n[i]*scale, m[i]*scale)
		}
	}
}

// Preview writes the table sampled over a w x h grid: x maps to the
// neighbor average and y to the self average.
func (t *Table) Preview(dst []float64, w, h int) {
	if len(dst) != w*h {
		panic(fmt.Sprintf("transition: preview length %d, want %d", len(dst), w*h))
	}
	for y := 0; y < h; y++ {
		am := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			dst[y*w+x] = t.At(float64(x)/float64(w), am)
		}
	}
}
