package gpu

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/simulation"
	"github.com/pthm-cable/smoothlife/transition"
)

// DefaultQueueDepth bounds the number of recorded task lists waiting for the
// graphics goroutine.
const DefaultQueueDepth = 4

// Config describes a GPU simulation instance. Both grid dimensions must be
// powers of two.
type Config struct {
	Width, Height int
	Kernel        kernel.Config
	Smoother      transition.Config
	Seed          int64
}

// Engine is the GPU-resident simulation. Its methods run on the worker and
// only record passes; the field lives in device textures.
type Engine struct {
	width, height int

	kernelCfg   kernel.Config
	kernelReady bool
	lookup      *transition.Lookup
	rng         *rand.Rand
	fft         *FFT
	next        Texture

	field [2]Texture
	cur   int

	cplx, spec, tmp Texture
	an, am          Texture

	ringSpec, discSpec   Texture
	ringMask, discMask   Texture
	ringScale, discScale float32

	lookupTex, preview, ramp, display Texture

	pending *TaskList
	queue   *LockedQueue[*TaskList]
}

// New records the setup of every texture into the first pending list.
// Nothing reaches the device until the first Flush.
func New(cfg Config, queue *LockedQueue[*TaskList]) (*Engine, error) {
	e := &Engine{
		width:   cfg.Width,
		height:  cfg.Height,
		lookup:  transition.NewLookup(cfg.Smoother),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		pending: &TaskList{},
		queue:   queue,
	}

	fft, err := newFFT(e.pending, e.alloc, cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating transform plan: %w", err)
	}
	e.fft = fft

	grid := []*Texture{
		&e.field[0], &e.field[1], &e.cplx, &e.spec, &e.tmp, &e.an, &e.am,
		&e.ringSpec, &e.discSpec, &e.ringMask, &e.discMask,
		&e.preview, &e.ramp, &e.display,
	}
	for _, t := range grid {
		*t = e.alloc()
		e.pending.Create(*t, e.width, e.height)
	}
	e.lookupTex = e.alloc()
	e.pending.Create(e.lookupTex, transition.Size, transition.Size)

	ramp := make([]float32, e.width*e.height*4)
	for y := range e.height {
		for x := range e.width {
			ramp[(y*e.width+x)*4] = float32(x) / float32(e.width)
		}
	}
	e.pending.Upload(e.ramp, ramp)
	e.pending.Pass(Fill{Dst: e.field[0]})

	if err := e.SetKernel(cfg.Kernel); err != nil {
		return nil, err
	}
	if err := e.SetSmoother(cfg.Smoother); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) alloc() Texture {
	e.next++
	return e.next
}

// Size returns the grid dimensions.
func (e *Engine) Size() (int, int) { return e.width, e.height }

// Display is the texture the presenter shows.
func (e *Engine) Display() Texture { return e.display }

// KernelConfig returns the kernel radii in use.
func (e *Engine) KernelConfig() kernel.Config { return e.kernelCfg }

// SmootherConfig returns the transition parameters in use.
func (e *Engine) SmootherConfig() transition.Config { return e.lookup.Config() }

// SetKernel builds both masks on the CPU, uploads them and records their
// forward transforms.
func (e *Engine) SetKernel(cfg kernel.Config) error {
	e.kernelCfg = cfg
	e.kernelReady = false
	m, err := kernel.BuildMasks(cfg, e.width, e.height)
	if err != nil {
		return fmt.Errorf("building kernel: %w", err)
	}

	scratch := make([]float64, e.width*e.height)
	for _, k := range []struct {
		mask      []float64
		spec, tex Texture
	}{
		{m.Ring, e.ringSpec, e.ringMask},
		{m.Disc, e.discSpec, e.discMask},
	} {
		e.pending.Upload(e.an, realTexels(k.mask))
		e.pending.Pass(RealToComplex{Dst: e.cplx, Src: e.an})
		e.fft.Record(e.pending, k.spec, e.cplx, Forward)

		kernel.Center(scratch, k.mask, e.width, e.height)
		e.pending.Upload(k.tex, realTexels(scratch))
	}
	e.ringScale = float32(1 / m.RingWeight)
	e.discScale = float32(1 / m.DiscWeight)
	e.kernelReady = true
	return nil
}

// SetSmoother rebuilds the transition table and uploads it.
func (e *Engine) SetSmoother(cfg transition.Config) error {
	e.lookup.SetConfig(cfg)
	if err := e.lookup.Build(); err != nil {
		return fmt.Errorf("building transition table: %w", err)
	}
	tbl, err := e.lookup.Table()
	if err != nil {
		return err
	}
	e.pending.Upload(e.lookupTex, realTexels(tbl.Values()))
	return nil
}

// Step records one generation.
func (e *Engine) Step() error {
	if !e.kernelReady {
		return kernel.ErrDirty
	}
	if !e.lookup.Built() {
		return transition.ErrDirty
	}
	cfg := e.lookup.Config()
	l := e.pending
	src, dst := e.field[e.cur], e.field[1-e.cur]
	norm := float32(1 / float64(e.width*e.height))

	l.Pass(RealToComplex{Dst: e.cplx, Src: src})
	e.fft.Record(l, e.spec, e.cplx, Forward)

	l.Pass(ComplexMultiply{Dst: e.tmp, Src: e.spec, Kernel: e.ringSpec, Scale: e.ringScale})
	e.fft.Record(l, e.tmp, e.tmp, Inverse)
	l.Pass(ComplexToReal{Dst: e.an, Src: e.tmp, Scale: norm})

	l.Pass(ComplexMultiply{Dst: e.tmp, Src: e.spec, Kernel: e.discSpec, Scale: e.discScale})
	e.fft.Record(l, e.tmp, e.tmp, Inverse)
	l.Pass(ComplexToReal{Dst: e.am, Src: e.tmp, Scale: norm})

	l.Pass(Smoother{
		Dst: dst, Field: src, N: e.an, M: e.am, Lookup: e.lookupTex,
		Timestep: cfg.Timestep.Type, DT: float32(cfg.Timestep.DT),
	})
	e.cur = 1 - e.cur
	return nil
}

// Clear sets every cell to color.
func (e *Engine) Clear(color float64) {
	e.pending.Pass(Fill{Dst: e.field[e.cur], Value: float32(color)})
}

// DrawFilledCircle sets the cells of a toroidal circle to color.
func (e *Engine) DrawFilledCircle(x, y, radius, color float64) {
	e.pending.Pass(Circle{
		Dst: e.field[1-e.cur], Src: e.field[e.cur],
		X: x, Y: y, Radius: radius, Color: float32(color),
	})
	e.cur = 1 - e.cur
}

// Splat seeds random full-value circles. For the same seed and kernel it
// draws the same circles as the CPU engine.
func (e *Engine) Splat() {
	ra := e.kernelCfg.RingRadius
	count := simulation.SplatCount(e.width, e.height, ra)
	for range count {
		x := e.rng.Float64() * float64(e.width)
		y := e.rng.Float64() * float64(e.height)
		r := ra * (e.rng.Float64()*0.5 + 0.5)
		e.DrawFilledCircle(x, y, r, 1)
	}
}

// Flush hands the pending list to the graphics goroutine, blocking while
// its queue is full.
func (e *Engine) Flush() error {
	l := e.pending
	e.pending = &TaskList{}
	return e.queue.PushBack(l)
}

// realTexels packs values into the red channel of RGBA texels.
func realTexels(values []float64) []float32 {
	out := make([]float32, len(values)*4)
	for i, v := range values {
		out[i*4] = float32(v)
	}
	return out
}
