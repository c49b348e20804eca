package raster

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/render"
)

// Composite paints src at alpha over an opaque dst.
func Composite(mode render.BlendMode, dst, src colorful.Color, alpha float64) colorful.Color {
	var mixed colorful.Color
	switch mode {
	case render.BlendMultiply:
		mixed = colorful.Color{R: dst.R * src.R, G: dst.G * src.G, B: dst.B * src.B}
	case render.BlendScreen:
		mixed = colorful.Color{
			R: 1 - (1-dst.R)*(1-src.R),
			G: 1 - (1-dst.G)*(1-src.G),
			B: 1 - (1-dst.B)*(1-src.B),
		}
	case render.BlendLighter:
		return colorful.Color{
			R: dst.R + src.R*alpha,
			G: dst.G + src.G*alpha,
			B: dst.B + src.B*alpha,
		}.Clamped()
	default:
		mixed = src
	}
	return dst.BlendRgb(mixed, alpha).Clamped()
}
