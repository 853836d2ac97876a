package gpu

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrNotPowerOfTwo is returned for transform sizes the butterfly plans
// cannot handle.
var ErrNotPowerOfTwo = errors.New("gpu: size is not a power of two")

// TexelsPerEntry is the number of floats per plan entry: the two source
// indices and the twiddle cosine and sine.
const TexelsPerEntry = 4

// BitReverse reverses the low n bits of x.
func BitReverse(x, n int) int {
	return int(bits.Reverse(uint(x)) >> (bits.UintSize - n))
}

// Stages builds the radix-2 decimation-in-time plan for length n. Stage s
// (1-based) has span l = 2^s; entry x holds source indices a and b and the
// twiddle angle 2*pi*j/l for j = x mod l, such that
//
//	out[x] = in[a] + W^j * in[b],  W = exp(sign * 2*pi*i / l)
//
// The first stage reads the input in bit-reversed order. Each stage is a
// row of n RGBA texels.
func Stages(n int) ([][]float32, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}
	logN := bits.TrailingZeros(uint(n))
	stages := make([][]float32, logN)
	for s := 1; s <= logN; s++ {
		l := 1 << s
		half := l / 2
		row := make([]float32, n*TexelsPerEntry)
		for x := range n {
			j := x % l
			a, b := x, x+half
			if j >= half {
				a, b = x-half, x
			}
			if s == 1 {
				a, b = BitReverse(a, logN), BitReverse(b, logN)
			}
			angle := 2 * math.Pi * float64(j) / float64(l)
			row[x*4+0] = float32(a)
			row[x*4+1] = float32(b)
			row[x*4+2] = float32(math.Cos(angle))
			row[x*4+3] = float32(math.Sin(angle))
		}
		stages[s-1] = row
	}
	return stages, nil
}
