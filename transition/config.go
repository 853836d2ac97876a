// Package transition implements the SmoothLife state transition function,
// its 256x256 lookup table, and the timestep policies that apply it.
package transition

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/smoothlife/sigmoid"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("transition: invalid config")

// Mode selects how birth and death intervals are combined.
type Mode int

const (
	// Mode1: mix(between(n,b1,b2), between(n,d1,d2), m)
	Mode1 Mode = 1 + iota
	// Mode2: blend(between(n,b1,b2), between(n,d1,d2), m)
	Mode2
	// Mode3: between(n, mix(b1,d1,m), mix(b2,d2,m))
	Mode3
	// Mode4: between(n, blend(b1,d1,m), blend(b2,d2,m))
	Mode4
)

// Timestep selects the integration policy.
type Timestep int

const (
	Discrete Timestep = iota
	Smooth1
	Smooth2
	Smooth3
	Smooth4
)

var timestepNames = [...]string{"discrete", "smooth1", "smooth2", "smooth3", "smooth4"}

func (t Timestep) String() string {
	if t < 0 || int(t) >= len(timestepNames) {
		return fmt.Sprintf("Timestep(%d)", int(t))
	}
	return timestepNames[t]
}

// Valid reports whether t is a known policy.
func (t Timestep) Valid() bool {
	return t >= Discrete && t <= Smooth4
}

// ParseTimestep accepts a policy name or its numeric index.
func ParseTimestep(s string) (Timestep, error) {
	for i, name := range timestepNames {
		if s == name {
			return Timestep(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && Timestep(n).Valid() {
		return Timestep(n), nil
	}
	return 0, fmt.Errorf("%w: unknown timestep %q", ErrInvalidConfig, s)
}

// MarshalText encodes the policy by name.
func (t Timestep) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: timestep %d", ErrInvalidConfig, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a policy name or index.
func (t *Timestep) UnmarshalText(b []byte) error {
	v, err := ParseTimestep(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimestepConfig is an integration policy and its step size.
type TimestepConfig struct {
	Type Timestep `yaml:"type"`
	DT   float64  `yaml:"dt"`
}

// Config holds the transition function parameters.
type Config struct {
	Timestep TimestepConfig `yaml:"timestep"`

	B1 float64 `yaml:"b1"`
	D1 float64 `yaml:"d1"`
	B2 float64 `yaml:"b2"`
	D2 float64 `yaml:"d2"`

	Mode    Mode           `yaml:"mode"`
	Sigmoid sigmoid.Family `yaml:"sigmoid"`
	Mix     sigmoid.Family `yaml:"mix"`

	SN float64 `yaml:"sn"`
	SM float64 `yaml:"sm"`
}

// Validate rejects unknown enums and non-finite parameters.
func (c Config) Validate() error {
	if c.Mode < Mode1 || c.Mode > Mode4 {
		return fmt.Errorf("%w: mode %d", ErrInvalidConfig, c.Mode)
	}
	if !c.Sigmoid.Valid() {
		return fmt.Errorf("%w: sigmoid %d", ErrInvalidConfig, c.Sigmoid)
	}
	if !c.Mix.Valid() {
		return fmt.Errorf("%w: mix %d", ErrInvalidConfig, c.Mix)
	}
	if !c.Timestep.Type.Valid() {
		return fmt.Errorf("%w: timestep %d", ErrInvalidConfig, c.Timestep.Type)
	}
	for _, v := range []float64{c.Timestep.DT, c.B1, c.D1, c.B2, c.D2, c.SN, c.SM} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite parameter in %+v", ErrInvalidConfig, c)
		}
	}
	if c.Timestep.DT < 0 || c.SN < 0 || c.SM < 0 {
		return fmt.Errorf("%w: negative dt or width in %+v", ErrInvalidConfig, c)
	}
	return nil
}

// Value evaluates the unclamped transition function at neighbor average n
// and self average m.
func (c Config) Value(n, m float64) float64 {
	f := sigmoid.ByFamily(c.Sigmoid)
	g := sigmoid.ByFamily(c.Mix)

	switch c.Mode {
	case Mode1:
		return sigmoid.Mix(
			sigmoid.Between(f, n, c.B1, c.B2, c.SN),
			sigmoid.Between(f, n, c.D1, c.D2, c.SN),
			m)
	case Mode2:
		return sigmoid.Blend(g,
			sigmoid.Between(f, n, c.B1, c.B2, c.SN),
			sigmoid.Between(f, n, c.D1, c.D2, c.SN),
			m, c.SM)
	case Mode3:
		return sigmoid.Between(f, n,
			sigmoid.Mix(c.B1, c.D1, m),
			sigmoid.Mix(c.B2, c.D2, m),
			c.SN)
	default:
		return sigmoid.Between(f, n,
			sigmoid.Blend(g, c.B1, c.D1, m, c.SM),
			sigmoid.Blend(g, c.B2, c.D2, m, c.SM),
			c.SN)
	}
}
