package spectral

import "fmt"

// Multiply sets out[k] = scale * a[k] * b[k]. With b the transform of a mask
// and scale its reciprocal total weight, the inverse of out is the
// mask-weighted average of the field a was taken from. out may alias a or b.
func Multiply(out, a, b []complex128, scale float64) {
	if len(a) != len(out) || len(b) != len(out) {
		panic(fmt.Sprintf("spectral: multiply length mismatch %d, %d, %d", len(out), len(a), len(b)))
	}
	s := complex(scale, 0)
	for k := range out {
		out[k] = s * (a[k] * b[k])
	}
}
