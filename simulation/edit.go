package simulation

import "math"

// Clear sets every cell to color.
func (e *Engine) Clear(color float64) {
	for i := range e.field {
		e.field[i] = color
	}
}

// DrawFilledCircle sets every cell whose toroidal squared distance from
// (x, y) is below radius^2 to color. A circle crossing an edge is drawn as
// translated copies on the far side.
func (e *Engine) DrawFilledCircle(x, y, radius, color float64) {
	drawCircle(e.field, e.width, e.height, x, y, radius, color)
}

func drawCircle(dst []float64, w, h int, x, y, radius, color float64) {
	if !(radius > 0) {
		return
	}
	fw, fh := float64(w), float64(h)
	cx := wrap(x, fw)
	cy := wrap(y, fh)

	for _, oy := range [3]float64{-fh, 0, fh} {
		ny := cy + oy
		if ny+radius < 0 || ny-radius > fh-1 {
			continue
		}
		for _, ox := range [3]float64{-fw, 0, fw} {
			nx := cx + ox
			if nx+radius < 0 || nx-radius > fw-1 {
				continue
			}
			drawCircleNoWrap(dst, w, h, nx, ny, radius, color)
		}
	}
}

func drawCircleNoWrap(dst []float64, w, h int, x, y, radius, color float64) {
	left := max(0, int(math.Ceil(x-radius)))
	right := min(w-1, int(math.Floor(x+radius)))
	top := max(0, int(math.Ceil(y-radius)))
	bottom := min(h-1, int(math.Floor(y+radius)))
	r2 := radius * radius

	for j := top; j <= bottom; j++ {
		dy := y - float64(j)
		for i := left; i <= right; i++ {
			dx := x - float64(i)
			if dx*dx+dy*dy < r2 {
				dst[j*w+i] = color
			}
		}
	}
}

func wrap(v, n float64) float64 {
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	return v
}

// SplatCount is the number of circles Splat draws for a grid and ring
// radius.
func SplatCount(w, h int, ringRadius float64) int {
	mx := math.Max(1, math.Min(2*ringRadius, float64(w)))
	my := math.Max(1, math.Min(2*ringRadius, float64(h)))
	n := int(float64(w)*float64(h)/(mx*my)) + 1
	return min(n, w*h)
}

// Splat draws SplatCount full-value circles at random positions with radii
// in [0.5, 1) times the ring radius.
func (e *Engine) Splat() {
	ra := e.kernel.Config().RingRadius
	count := SplatCount(e.width, e.height, ra)
	for range count {
		x := e.rng.Float64() * float64(e.width)
		y := e.rng.Float64() * float64(e.height)
		r := ra * (e.rng.Float64()*0.5 + 0.5)
		e.DrawFilledCircle(x, y, r, 1)
	}
}
