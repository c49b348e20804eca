// Package particle holds the particle record, the field that owns a fixed
// number of them, and the stepper that moves them around inside a viewport.
package particle

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Particle is a single animated point.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Color   colorful.Color
	Opacity float64
}

// Range is an inclusive [Min, Max] interval used for sampling.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws uniformly from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Params describes how a Field is seeded.
type Params struct {
	Count    int
	Palette  []colorful.Color
	Radius   Range
	Velocity Range
	Opacity  Range
}

// Field is the ordered set of particles owned by one mounted backdrop.
type Field []Particle

// NewField seeds p.Count particles over a w x h surface.
//
// Velocity components are drawn independently from [-Velocity.Max/2,
// Velocity.Max/2], so the resulting speed is not uniformly distributed.
// Velocity.Min does not take part in sampling.
func NewField(p Params, w, h float64, rng *rand.Rand) Field {
	f := make(Field, p.Count)
	half := p.Velocity.Max / 2
	for i := range f {
		f[i] = Particle{
			X:       rng.Float64() * w,
			Y:       rng.Float64() * h,
			VX:      (rng.Float64()*2 - 1) * half,
			VY:      (rng.Float64()*2 - 1) * half,
			Radius:  p.Radius.Sample(rng),
			Color:   p.Palette[rng.IntN(len(p.Palette))],
			Opacity: p.Opacity.Sample(rng),
		}
	}
	return f
}

// Clone returns an independent copy of the field.
func (f Field) Clone() Field {
	out := make(Field, len(f))
	copy(out, f)
	return out
}
