// Package render draws a particle field onto a Surface.
package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/particle"
)

// Surface is a 2D drawing target with canvas-style state.
//
// Save pushes the current alpha, blend mode and fill color; Restore pops it.
// Ready reports whether the surface can be drawn to at all; a torn down
// surface returns false.
type Surface interface {
	Clear()
	Save()
	Restore()
	SetBlendMode(BlendMode)
	SetGlobalAlpha(a float64)
	SetFillColor(c colorful.Color)
	FillCircle(x, y, r float64)
	Ready() bool
}

// Draw clears s and paints every particle of f in order.
func Draw(s Surface, f particle.Field, mode BlendMode) {
	s.Clear()
	for i := range f {
		p := &f[i]
		s.Save()
		s.SetBlendMode(mode)
		s.SetGlobalAlpha(p.Opacity)
		s.SetFillColor(p.Color)
		s.FillCircle(p.X, p.Y, p.Radius)
		s.Restore()
	}
}
