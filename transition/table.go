package transition

import (
	"errors"
	"fmt"
)

// Size is the table resolution along each axis.
const Size = 256

// ErrDirty is returned by Lookup accessors before the table is built for the
// current config.
var ErrDirty = errors.New("transition: table not built for current config")

// Table holds the clamped transition function sampled at n=i/Size, m=j/Size,
// stored at i*Size+j.
type Table struct {
	cfg    Config
	values []float64
}

// NewTable samples cfg over the full grid.
func NewTable(cfg Config) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Table{cfg: cfg, values: make([]float64, Size*Size)}
	for i := 0; i < Size; i++ {
		n := float64(i) / Size
		for j := 0; j < Size; j++ {
			m := float64(j) / Size
			t.values[i*Size+j] = clamp01(cfg.Value(n, m))
		}
	}
	return t, nil
}

// Config returns the parameters the table was built from.
func (t *Table) Config() Config { return t.cfg }

// Values returns the backing row-major table. Callers must not modify it.
func (t *Table) Values() []float64 { return t.values }

// At returns the nearest lower bucket for (n, m). Out-of-range and NaN
// inputs are clamped to the table edges.
func (t *Table) At(n, m float64) float64 {
	return t.values[index(n)*Size+index(m)]
}

func index(v float64) int {
	s := v * Size
	if !(s >= 0) {
		return 0
	}
	if s >= Size-1 {
		return Size - 1
	}
	return int(s)
}

func clamp01(x float64) float64 {
	if x > 1 {
		return 1
	}
	if !(x >= 0) {
		return 0
	}
	return x
}

// Lookup is the two-state holder for a table: Dirty after a config change,
// Built after Build succeeds.
type Lookup struct {
	cfg   Config
	table *Table
}

// NewLookup returns a Dirty lookup for cfg.
func NewLookup(cfg Config) *Lookup {
	return &Lookup{cfg: cfg}
}

// Config returns the configuration the lookup is (or will be) built for.
func (l *Lookup) Config() Config { return l.cfg }

// Built reports whether the table matches the current config.
func (l *Lookup) Built() bool { return l.table != nil }

// SetConfig replaces the configuration and discards the table.
func (l *Lookup) SetConfig(cfg Config) {
	l.cfg = cfg
	l.table = nil
}

// Build samples the table for the current config.
func (l *Lookup) Build() error {
	t, err := NewTable(l.cfg)
	if err != nil {
		return err
	}
	l.table = t
	return nil
}

// Table returns the built table, or ErrDirty.
func (l *Lookup) Table() (*Table, error) {
	if l.table == nil {
		return nil, fmt.Errorf("%w (%+v)", ErrDirty, l.cfg)
	}
	return l.table, nil
}
