package particle

// Step advances p by one frame inside a w x h surface.
//
// Reflection is decided on the integrated position before clamping; the clamp
// only catches overshoot and particles stranded outside after a resize.
func Step(p *Particle, w, h float64) {
	p.X += p.VX
	p.Y += p.VY

	if p.X <= p.Radius || p.X >= w-p.Radius {
		p.VX = -p.VX
	}
	if p.Y <= p.Radius || p.Y >= h-p.Radius {
		p.VY = -p.VY
	}

	p.X = clamp(p.X, p.Radius, w-p.Radius)
	p.Y = clamp(p.Y, p.Radius, h-p.Radius)
}

// Step advances every particle in the field.
func (f Field) Step(w, h float64) {
	for i := range f {
		Step(&f[i], w, h)
	}
}

// clamp pins v into [lo, hi]. When the surface is narrower than a particle
// (hi < lo) the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
