// Package termhost runs the backdrop in a terminal. Each cell shows two
// vertically stacked pixels using the upper half block glyph.
package termhost

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/backdrop"
	"github.com/iburimskiy/backdrop/internal/loop"
	"github.com/iburimskiy/backdrop/internal/raster"
	"github.com/iburimskiy/backdrop/internal/viewport"
)

const upperHalf = '▀'

// Host drives a raster canvas onto a tcell screen.
type Host struct {
	screen   tcell.Screen
	canvas   *raster.Canvas
	timers   *loop.TimerScheduler
	viewport *viewport.Notifier

	mu     sync.Mutex
	closed bool
}

// New wraps an initialized screen.
func New(screen tcell.Screen, background colorful.Color, frameInterval time.Duration) *Host {
	cols, rows := screen.Size()
	return &Host{
		screen:   screen,
		canvas:   raster.New(cols, rows*2, background),
		timers:   loop.NewTimerScheduler(frameInterval),
		viewport: viewport.NewNotifier(cols, rows*2),
	}
}

// Backdrop returns the host parts for backdrop.Mount.
func (h *Host) Backdrop() backdrop.Host {
	return backdrop.Host{Surface: h.canvas, Scheduler: h, Viewport: h.viewport}
}

// RequestFrame implements loop.Scheduler; the screen is repainted after each
// frame until the host is closed.
func (h *Host) RequestFrame(fn func()) loop.FrameID {
	return h.timers.RequestFrame(func() {
		fn()
		h.present()
	})
}

// CancelFrame implements loop.Scheduler.
func (h *Host) CancelFrame(id loop.FrameID) { h.timers.CancelFrame(id) }

// Run handles terminal events until Esc, Ctrl-C or ctx is done.
func (h *Host) Run(ctx context.Context) error {
	h.present()

	stop := context.AfterFunc(ctx, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := h.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			h.screen.Sync()
			cols, rows := ev.Size()
			h.viewport.Set(cols, rows*2)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
		case *tcell.EventInterrupt:
			return ctx.Err()
		}
	}
}

// Close releases the canvas and stops painting. A frame already in flight
// finishes without touching the screen. The caller owns the screen.
func (h *Host) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.canvas.Release()
}

func (h *Host) present() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	w, ht := h.canvas.Size()
	for y := 0; y+1 < ht; y += 2 {
		for x := 0; x < w; x++ {
			top := cellColor(h.canvas.At(x, y))
			bottom := cellColor(h.canvas.At(x, y+1))
			h.screen.SetContent(x, y/2, upperHalf, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	h.screen.Show()
}

func cellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
