package kernel

import (
	"fmt"

	"github.com/pthm-cable/smoothlife/spectral"
)

// State is the build state of a Kernel.
type State int

const (
	Dirty State = iota
	Built
)

func (s State) String() string {
	if s == Built {
		return "built"
	}
	return "dirty"
}

// Spectra is a built kernel: masks plus their forward transforms.
type Spectra struct {
	*Masks
	Config Config

	RingSpectrum []complex128
	DiscSpectrum []complex128
}

// Kernel owns the masks for one grid. Changing the config moves it back to
// Dirty; Build moves it to Built. Reads while Dirty return ErrDirty.
type Kernel struct {
	width, height int
	tr            spectral.Transform

	cfg   Config
	state State
	built *Spectra
}

// New returns a Dirty kernel that will transform masks with tr.
func New(cfg Config, tr spectral.Transform) *Kernel {
	w, h := tr.Size()
	return &Kernel{width: w, height: h, tr: tr, cfg: cfg}
}

// Config returns the configuration the kernel is (or will be) built for.
func (k *Kernel) Config() Config { return k.cfg }

// State reports whether the kernel is Dirty or Built.
func (k *Kernel) State() State { return k.state }

// SetConfig replaces the configuration and discards the built payload.
func (k *Kernel) SetConfig(cfg Config) {
	k.cfg = cfg
	k.state = Dirty
	k.built = nil
}

// Build computes masks and spectra for the current config. On failure the
// kernel stays Dirty.
func (k *Kernel) Build() error {
	m, err := BuildMasks(k.cfg, k.width, k.height)
	if err != nil {
		return err
	}
	n := spectral.SpectrumLen(k.width, k.height)
	s := &Spectra{
		Masks:        m,
		Config:       k.cfg,
		RingSpectrum: make([]complex128, n),
		DiscSpectrum: make([]complex128, n),
	}
	k.tr.Forward(s.RingSpectrum, m.Ring)
	k.tr.Forward(s.DiscSpectrum, m.Disc)

	k.built = s
	k.state = Built
	return nil
}

// Spectra returns the built payload, or ErrDirty.
func (k *Kernel) Spectra() (*Spectra, error) {
	if k.state != Built {
		return nil, fmt.Errorf("%w (%+v)", ErrDirty, k.cfg)
	}
	return k.built, nil
}
