package gpu

import "github.com/pthm-cable/smoothlife/transition"

// Texture is a logical handle to a W x H texture of RGBA float texels.
// Handles are chosen by the recording side so passes can name textures
// before the device has created them.
type Texture int32

// Device executes passes against its textures. All methods run on the
// goroutine that owns the graphics context.
type Device interface {
	Create(t Texture, w, h int) error
	// Upload replaces the texels of t; data holds 4 floats per texel.
	Upload(t Texture, data []float32) error
	Download(t Texture, dst []float32) error
	Run(p Pass) error
	Destroy(t Texture)
	Close() error
}

// Pass renders every texel of its destination texture. A pass never reads
// its own destination.
type Pass interface {
	Target() Texture
}

// Butterfly runs one radix-2 stage along rows or columns. Plan is the
// stage's n x 1 plan texture; Sign is -1 for the forward transform.
type Butterfly struct {
	Dst, Src, Plan Texture
	Vertical       bool
	Sign           float32
}

// RealToComplex copies the real channel of Src into a complex texture with
// zero imaginary part.
type RealToComplex struct {
	Dst, Src Texture
}

// ComplexMultiply writes Src * Kernel * Scale.
type ComplexMultiply struct {
	Dst, Src, Kernel Texture
	Scale            float32
}

// ComplexToReal writes the scaled real part of Src.
type ComplexToReal struct {
	Dst, Src Texture
	Scale    float32
}

// Smoother applies the transition table at (N, M) to Field with the given
// timestep policy. Lookup is the 256 x 256 table texture.
type Smoother struct {
	Dst, Field, N, M, Lookup Texture
	Timestep                 transition.Timestep
	DT                       float32
}

// Circle copies Src and sets cells inside the toroidal circle to Color.
type Circle struct {
	Dst, Src     Texture
	X, Y, Radius float64
	Color        float32
}

// Fill sets every texel's real channel to Value.
type Fill struct {
	Dst   Texture
	Value float32
}

// Copy duplicates Src.
type Copy struct {
	Dst, Src Texture
}

// Preview samples the table texture over the destination grid: x maps to
// the neighbor average and y to the self average.
type Preview struct {
	Dst, Lookup Texture
}

func (p Butterfly) Target() Texture       { return p.Dst }
func (p RealToComplex) Target() Texture   { return p.Dst }
func (p ComplexMultiply) Target() Texture { return p.Dst }
func (p ComplexToReal) Target() Texture   { return p.Dst }
func (p Smoother) Target() Texture        { return p.Dst }
func (p Circle) Target() Texture          { return p.Dst }
func (p Fill) Target() Texture            { return p.Dst }
func (p Copy) Target() Texture            { return p.Dst }
func (p Preview) Target() Texture         { return p.Dst }
