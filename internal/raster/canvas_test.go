package raster

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/particle"
	"github.com/iburimskiy/backdrop/internal/render"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

func near(a, b colorful.Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}

func TestComposite(t *testing.T) {
	red := colorful.Color{R: 1, G: 0.2, B: 0.2}
	gray := colorful.Color{R: 0.5, G: 0.5, B: 0.5}

	tests := []struct {
		name  string
		mode  render.BlendMode
		dst   colorful.Color
		src   colorful.Color
		alpha float64
		want  colorful.Color
	}{
		{"multiply opaque", render.BlendMultiply, gray, red, 1, colorful.Color{R: 0.5, G: 0.1, B: 0.1}},
		{"multiply half", render.BlendMultiply, white, red, 0.5, colorful.Color{R: 1, G: 0.6, B: 0.6}},
		{"multiply zero alpha", render.BlendMultiply, gray, red, 0, gray},
		{"source over", render.BlendSourceOver, white, red, 0.5, colorful.Color{R: 1, G: 0.6, B: 0.6}},
		{"screen", render.BlendScreen, gray, gray, 1, colorful.Color{R: 0.75, G: 0.75, B: 0.75}},
		{"lighter clamps", render.BlendLighter, gray, red, 1, colorful.Color{R: 1, G: 0.7, B: 0.7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Composite(tt.mode, tt.dst, tt.src, tt.alpha)
			if !near(got, tt.want) {
				t.Errorf("Composite = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMultiplyDarkensOverlap(t *testing.T) {
	c := New(20, 20, white)
	teal := colorful.Color{R: 0.3, G: 0.8, B: 0.77}
	f := particle.Field{
		{X: 8, Y: 10, Radius: 4, Color: teal, Opacity: 0.5},
		{X: 12, Y: 10, Radius: 4, Color: teal, Opacity: 0.5},
	}
	render.Draw(c, f, render.BlendMultiply)

	single := c.At(5, 10)
	overlap := c.At(10, 10)
	if !(overlap.R < single.R && overlap.G < single.G) {
		t.Errorf("overlap %+v not darker than single %+v", overlap, single)
	}
	if bg := c.At(0, 0); !near(bg, white) {
		t.Errorf("untouched pixel = %+v, want background", bg)
	}
}

func TestClearAndResize(t *testing.T) {
	c := New(4, 4, white)
	c.SetFillColor(colorful.Color{})
	c.FillCircle(2, 2, 3)
	if near(c.At(2, 2), white) {
		t.Fatal("circle did not paint")
	}
	c.Clear()
	if !near(c.At(2, 2), white) {
		t.Error("clear did not reset to background")
	}

	c.Resize(8, 2)
	if w, h := c.Size(); w != 8 || h != 2 {
		t.Errorf("Size = %dx%d, want 8x2", w, h)
	}
	if img := c.Image(); img.Bounds().Dx() != 8 || img.Bounds().Dy() != 2 {
		t.Errorf("image bounds = %v", img.Bounds())
	}
}

func TestFillCircleClipsToBounds(t *testing.T) {
	c := New(5, 5, white)
	c.SetFillColor(colorful.Color{})
	c.FillCircle(-2, -2, 4)
	c.FillCircle(100, 100, 10)
	if near(c.At(0, 0), white) {
		t.Error("partly visible circle did not paint the corner")
	}
}

func TestSaveRestore(t *testing.T) {
	c := New(2, 2, white)
	c.Save()
	c.SetGlobalAlpha(0.1)
	c.SetBlendMode(render.BlendMultiply)
	c.Restore()
	c.Restore() // unmatched, ignored

	c.SetFillColor(colorful.Color{})
	c.FillCircle(1, 1, 2)
	if got := c.At(0, 0); !near(got, colorful.Color{}) {
		t.Errorf("after restore expected opaque source-over paint, got %+v", got)
	}
}

func TestRelease(t *testing.T) {
	c := New(3, 3, white)
	if !c.Ready() {
		t.Fatal("new canvas not ready")
	}
	c.Release()
	if c.Ready() {
		t.Error("released canvas reports ready")
	}
	c.FillCircle(1, 1, 1)
	c.Clear()
}
