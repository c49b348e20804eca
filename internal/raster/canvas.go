// Package raster is a software drawing surface over an RGBA image.
package raster

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/render"
)

type drawState struct {
	alpha float64
	blend render.BlendMode
	fill  colorful.Color
}

var initialState = drawState{alpha: 1, blend: render.BlendSourceOver}

// Canvas implements render.Surface and viewport.Target. Every pixel is
// opaque; Clear resets to the background color.
type Canvas struct {
	mu         sync.Mutex
	w, h       int
	pix        []colorful.Color
	background colorful.Color
	state      drawState
	stack      []drawState
	released   bool
}

// New returns a w x h canvas cleared to background.
func New(w, h int, background colorful.Color) *Canvas {
	c := &Canvas{background: background, state: initialState}
	c.resize(w, h)
	return c
}

// Resize drops the contents and reallocates at w x h.
func (c *Canvas) Resize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resize(w, h)
}

func (c *Canvas) resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.w, c.h = w, h
	c.pix = make([]colorful.Color, w*h)
	c.fill(c.background)
}

func (c *Canvas) fill(col colorful.Color) {
	for i := range c.pix {
		c.pix[i] = col
	}
}

// Size returns the pixel dimensions.
func (c *Canvas) Size() (w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// Clear implements render.Surface.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill(c.background)
}

// Save implements render.Surface.
func (c *Canvas) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack = append(c.stack, c.state)
}

// Restore implements render.Surface. An unmatched Restore is ignored.
func (c *Canvas) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.stack); n > 0 {
		c.state = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

// SetBlendMode implements render.Surface.
func (c *Canvas) SetBlendMode(m render.BlendMode) {
	c.mu.Lock()
	c.state.blend = m
	c.mu.Unlock()
}

// SetGlobalAlpha implements render.Surface.
func (c *Canvas) SetGlobalAlpha(a float64) {
	c.mu.Lock()
	c.state.alpha = math.Max(0, math.Min(1, a))
	c.mu.Unlock()
}

// SetFillColor implements render.Surface.
func (c *Canvas) SetFillColor(col colorful.Color) {
	c.mu.Lock()
	c.state.fill = col
	c.mu.Unlock()
}

// FillCircle implements render.Surface. A pixel is covered when its center
// lies inside the circle.
func (c *Canvas) FillCircle(x, y, r float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r <= 0 || c.released {
		return
	}
	x0 := max(0, int(math.Floor(x-r)))
	x1 := min(c.w-1, int(math.Ceil(x+r)))
	y0 := max(0, int(math.Floor(y-r)))
	y1 := min(c.h-1, int(math.Ceil(y+r)))
	r2 := r * r

	for py := y0; py <= y1; py++ {
		dy := float64(py) + 0.5 - y
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - x
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := py*c.w + px
			c.pix[i] = Composite(c.state.blend, c.pix[i], c.state.fill, c.state.alpha)
		}
	}
}

// Ready implements render.Surface.
func (c *Canvas) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.released && c.w > 0 && c.h > 0
}

// Release marks the canvas torn down; later draws are dropped.
func (c *Canvas) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.pix = nil
	c.w, c.h = 0, 0
}

// At returns the pixel at (x, y), or the background outside the canvas.
func (c *Canvas) At(x, y int) colorful.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return c.background
	}
	return c.pix[y*c.w+x]
}

// Image copies the canvas into an RGBA image.
func (c *Canvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			r, g, b := c.pix[y*c.w+x].RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return img
}
