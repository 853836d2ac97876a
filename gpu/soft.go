package gpu

import (
	"fmt"
	"math"

	"github.com/pthm-cable/smoothlife/transition"
)

type softTexture struct {
	w, h int
	data []float32
}

func (t *softTexture) at(x, y int) []float32 {
	i := (y*t.w + x) * 4
	return t.data[i : i+4]
}

// SoftDevice executes passes on the CPU with float32 texel storage. It
// backs headless GPU runs and tests.
type SoftDevice struct {
	textures map[Texture]*softTexture
}

// NewSoftDevice returns an empty device.
func NewSoftDevice() *SoftDevice {
	return &SoftDevice{textures: make(map[Texture]*softTexture)}
}

func (d *SoftDevice) Create(t Texture, w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("gpu: texture %d: bad size %dx%d", t, w, h)
	}
	if _, ok := d.textures[t]; ok {
		return fmt.Errorf("gpu: texture %d already exists", t)
	}
	d.textures[t] = &softTexture{w: w, h: h, data: make([]float32, w*h*4)}
	return nil
}

func (d *SoftDevice) get(t Texture) (*softTexture, error) {
	tex, ok := d.textures[t]
	if !ok {
		return nil, fmt.Errorf("gpu: unknown texture %d", t)
	}
	return tex, nil
}

func (d *SoftDevice) Upload(t Texture, data []float32) error {
	tex, err := d.get(t)
	if err != nil {
		return err
	}
	if len(data) != len(tex.data) {
		return fmt.Errorf("gpu: upload to texture %d: %d floats, want %d", t, len(data), len(tex.data))
	}
	copy(tex.data, data)
	return nil
}

func (d *SoftDevice) Download(t Texture, dst []float32) error {
	tex, err := d.get(t)
	if err != nil {
		return err
	}
	if len(dst) != len(tex.data) {
		return fmt.Errorf("gpu: download from texture %d: %d floats, want %d", t, len(dst), len(tex.data))
	}
	copy(dst, tex.data)
	return nil
}

func (d *SoftDevice) Destroy(t Texture) { delete(d.textures, t) }

func (d *SoftDevice) Close() error {
	clear(d.textures)
	return nil
}

// pair resolves dst and src and checks they match in size.
func (d *SoftDevice) pair(dst, src Texture) (*softTexture, *softTexture, error) {
	dt, err := d.get(dst)
	if err != nil {
		return nil, nil, err
	}
	st, err := d.get(src)
	if err != nil {
		return nil, nil, err
	}
	if dst == src {
		return nil, nil, fmt.Errorf("gpu: pass reads its destination %d", dst)
	}
	if dt.w != st.w || dt.h != st.h {
		return nil, nil, fmt.Errorf("gpu: size mismatch %dx%d vs %dx%d", dt.w, dt.h, st.w, st.h)
	}
	return dt, st, nil
}

func (d *SoftDevice) Run(p Pass) error {
	switch p := p.(type) {
	case Butterfly:
		return d.butterfly(p)
	case RealToComplex:
		return d.each2(p.Dst, p.Src, func(o, s []float32) {
			o[0], o[1], o[2], o[3] = s[0], 0, 0, 0
		})
	case ComplexToReal:
		return d.each2(p.Dst, p.Src, func(o, s []float32) {
			o[0], o[1], o[2], o[3] = s[0]*p.Scale, 0, 0, 0
		})
	case ComplexMultiply:
		return d.multiply(p)
	case Copy:
		return d.each2(p.Dst, p.Src, func(o, s []float32) { copy(o, s) })
	case Fill:
		dt, err := d.get(p.Dst)
		if err != nil {
			return err
		}
		for i := 0; i < len(dt.data); i += 4 {
			dt.data[i], dt.data[i+1], dt.data[i+2], dt.data[i+3] = p.Value, 0, 0, 0
		}
		return nil
	case Circle:
		return d.circle(p)
	case Smoother:
		return d.smoother(p)
	case Preview:
		return d.preview(p)
	}
	return fmt.Errorf("gpu: unsupported pass %T", p)
}

func (d *SoftDevice) each2(dst, src Texture, fn func(o, s []float32)) error {
	dt, st, err := d.pair(dst, src)
	if err != nil {
		return err
	}
	for i := 0; i < len(dt.data); i += 4 {
		fn(dt.data[i:i+4], st.data[i:i+4])
	}
	return nil
}

func (d *SoftDevice) butterfly(p Butterfly) error {
	dt, st, err := d.pair(p.Dst, p.Src)
	if err != nil {
		return err
	}
	plan, err := d.get(p.Plan)
	if err != nil {
		return err
	}
	n := dt.w
	if p.Vertical {
		n = dt.h
	}
	if plan.w != n {
		return fmt.Errorf("gpu: plan length %d for axis of %d", plan.w, n)
	}

	for y := range dt.h {
		for x := range dt.w {
			idx := x
			if p.Vertical {
				idx = y
			}
			e := plan.at(idx, 0)
			a, b := int(e[0]), int(e[1])
			wr, wi := float64(e[2]), float64(p.Sign)*float64(e[3])

			var in0, in1 []float32
			if p.Vertical {
				in0, in1 = st.at(x, a), st.at(x, b)
			} else {
				in0, in1 = st.at(a, y), st.at(b, y)
			}
			br, bi := float64(in1[0]), float64(in1[1])
			o := dt.at(x, y)
			o[0] = float32(float64(in0[0]) + wr*br - wi*bi)
			o[1] = float32(float64(in0[1]) + wr*bi + wi*br)
			o[2], o[3] = 0, 0
		}
	}
	return nil
}

func (d *SoftDevice) multiply(p ComplexMultiply) error {
	dt, st, err := d.pair(p.Dst, p.Src)
	if err != nil {
		return err
	}
	kt, err := d.get(p.Kernel)
	if err != nil {
		return err
	}
	if kt.w != dt.w || kt.h != dt.h {
		return fmt.Errorf("gpu: kernel size %dx%d, want %dx%d", kt.w, kt.h, dt.w, dt.h)
	}
	for i := 0; i < len(dt.data); i += 4 {
		ar, ai := float64(st.data[i]), float64(st.data[i+1])
		br, bi := float64(kt.data[i]), float64(kt.data[i+1])
		s := float64(p.Scale)
		dt.data[i] = float32((ar*br - ai*bi) * s)
		dt.data[i+1] = float32((ar*bi + ai*br) * s)
		dt.data[i+2], dt.data[i+3] = 0, 0
	}
	return nil
}

func (d *SoftDevice) circle(p Circle) error {
	dt, st, err := d.pair(p.Dst, p.Src)
	if err != nil {
		return err
	}
	copy(dt.data, st.data)
	if !(p.Radius > 0) {
		return nil
	}
	fw, fh := float64(dt.w), float64(dt.h)
	cx, cy := wrap(p.X, fw), wrap(p.Y, fh)
	r2 := p.Radius * p.Radius
	for y := range dt.h {
		for x := range dt.w {
			if inToroidalCircle(float64(x), float64(y), cx, cy, fw, fh, r2) {
				o := dt.at(x, y)
				o[0], o[1], o[2], o[3] = p.Color, 0, 0, 0
			}
		}
	}
	return nil
}

// inToroidalCircle tests the cell against the circle and its eight
// translated copies.
func inToroidalCircle(x, y, cx, cy, w, h, r2 float64) bool {
	for _, oy := range [3]float64{-h, 0, h} {
		dy := cy + oy - y
		for _, ox := range [3]float64{-w, 0, w} {
			dx := cx + ox - x
			if dx*dx+dy*dy < r2 {
				return true
			}
		}
	}
	return false
}

func wrap(v, n float64) float64 {
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	return v
}

// lookupIndex quantizes like the CPU table.
func lookupIndex(v float64) int {
	s := v * transition.Size
	if !(s >= 0) {
		return 0
	}
	if s >= transition.Size-1 {
		return transition.Size - 1
	}
	return int(s)
}

func (d *SoftDevice) lookup(t Texture) (*softTexture, error) {
	lt, err := d.get(t)
	if err != nil {
		return nil, err
	}
	if lt.w != transition.Size || lt.h != transition.Size {
		return nil, fmt.Errorf("gpu: lookup texture is %dx%d", lt.w, lt.h)
	}
	return lt, nil
}

func (d *SoftDevice) smoother(p Smoother) error {
	dt, ft, err := d.pair(p.Dst, p.Field)
	if err != nil {
		return err
	}
	_, nt, err := d.pair(p.Dst, p.N)
	if err != nil {
		return err
	}
	_, mt, err := d.pair(p.Dst, p.M)
	if err != nil {
		return err
	}
	lt, err := d.lookup(p.Lookup)
	if err != nil {
		return err
	}
	dtStep := float64(p.DT)

	for i := 0; i < len(dt.data); i += 4 {
		n, m := float64(nt.data[i]), float64(mt.data[i])
		prev := float64(ft.data[i])
		f := float64(lt.at(lookupIndex(m), lookupIndex(n))[0])

		var v float64
		switch p.Timestep {
		case transition.Smooth1:
			v = prev + dtStep*(2*f-1)
		case transition.Smooth2:
			v = prev + dtStep*(f-prev)
		case transition.Smooth3:
			v = m + dtStep*(2*f-1)
		case transition.Smooth4:
			v = m + dtStep*(f-m)
		default:
			v = f
		}
		dt.data[i] = float32(max(0, min(v, 1)))
		dt.data[i+1], dt.data[i+2], dt.data[i+3] = 0, 0, 0
	}
	return nil
}

func (d *SoftDevice) preview(p Preview) error {
	dt, err := d.get(p.Dst)
	if err != nil {
		return err
	}
	lt, err := d.lookup(p.Lookup)
	if err != nil {
		return err
	}
	for y := range dt.h {
		mi := lookupIndex(float64(y) / float64(dt.h))
		for x := range dt.w {
			ni := lookupIndex(float64(x) / float64(dt.w))
			o := dt.at(x, y)
			o[0], o[1], o[2], o[3] = lt.at(mi, ni)[0], 0, 0, 0
		}
	}
	return nil
}
