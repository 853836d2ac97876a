// Package sigmoid provides the smooth step functions shared by kernel
// construction and the transition function.
//
// Every function has the signature f(x, a, ea): a is the step center and ea
// the transition width. Outputs lie in [0,1] and are monotone in x.
package sigmoid

import (
	"fmt"
	"math"
)

// Func is a smooth step centered at a with transition width ea.
type Func func(x, a, ea float64) float64

// Family selects one of the step function shapes.
type Family int

const (
	FamilyHard Family = iota
	FamilyLinear
	FamilyHermite
	FamilySin
	FamilySmooth
)

var familyNames = [...]string{"hard", "linear", "hermite", "sin", "smooth"}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// Valid reports whether f names a known family.
func (f Family) Valid() bool {
	return f >= FamilyHard && f <= FamilySmooth
}

// ParseFamily accepts either a family name or its numeric index.
func ParseFamily(s string) (Family, error) {
	for i, name := range familyNames {
		if s == name {
			return Family(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && Family(n).Valid() {
		return Family(n), nil
	}
	return 0, fmt.Errorf("unknown sigmoid family %q", s)
}

// MarshalText encodes the family by name.
func (f Family) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid sigmoid family %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText decodes a family name or index.
func (f *Family) UnmarshalText(b []byte) error {
	v, err := ParseFamily(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ByFamily returns the step function for fam. Unknown families fall back to
// Hard.
func ByFamily(fam Family) Func {
	switch fam {
	case FamilyLinear:
		return Linear
	case FamilyHermite:
		return Hermite
	case FamilySin:
		return Sin
	case FamilySmooth:
		return Smooth
	default:
		return Hard
	}
}

// Hard is a unit step at a. The width is ignored.
func Hard(x, a, _ float64) float64 {
	if x >= a {
		return 1
	}
	return 0
}

// Linear ramps from 0 at a-ea/2 to 1 at a+ea/2.
func Linear(x, a, ea float64) float64 {
	if ea <= 0 {
		return Hard(x, a, ea)
	}
	switch {
	case x < a-ea/2:
		return 0
	case x > a+ea/2:
		return 1
	}
	return (x-a)/ea + 0.5
}

// Hermite is the cubic smoothstep over [a-ea/2, a+ea/2].
func Hermite(x, a, ea float64) float64 {
	if ea <= 0 {
		return Hard(x, a, ea)
	}
	switch {
	case x < a-ea/2:
		return 0
	case x > a+ea/2:
		return 1
	}
	m := (x - (a - ea/2)) / ea
	return m * m * (3 - 2*m)
}

// Sin is a half-period sine ramp over [a-ea/2, a+ea/2].
func Sin(x, a, ea float64) float64 {
	if ea <= 0 {
		return Hard(x, a, ea)
	}
	switch {
	case x < a-ea/2:
		return 0
	case x > a+ea/2:
		return 1
	}
	return math.Sin(math.Pi*(x-a)/ea)*0.5 + 0.5
}

// Smooth is the logistic function with slope 4/ea at a.
func Smooth(x, a, ea float64) float64 {
	if ea <= 0 {
		return Hard(x, a, ea)
	}
	return 1 / (1 + math.Exp(-(x-a)*4/ea))
}

// Ramp is the mask edge profile used by kernel construction.
func Ramp(l, radius, blend float64) float64 {
	return Linear(l, radius, blend)
}

// Mix is plain linear interpolation from x to y by m.
func Mix(x, y, m float64) float64 {
	return x + m*(y-x)
}

// Between is f(x,a,w)*(1-f(x,b,w)): close to 1 for a < x < b.
func Between(f Func, x, a, b, w float64) float64 {
	return f(x, a, w) * (1 - f(x, b, w))
}

// Blend interpolates from x to y by g(m, 0.5, w).
func Blend(g Func, x, y, m, w float64) float64 {
	return x + g(m, 0.5, w)*(y-x)
}
