// Package ebitenhost runs the backdrop in a desktop window.
package ebitenhost

import (
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/ambience"
	"github.com/iburimskiy/backdrop/internal/backdrop"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/loop"
	"github.com/iburimskiy/backdrop/internal/telemetry"
	"github.com/iburimskiy/backdrop/internal/viewport"
)

// MountFunc mounts the backdrop once the window has a size.
type MountFunc func(host backdrop.Host) (*backdrop.Handle, error)

// Game implements ebiten.Game. Frames requested by the backdrop run in
// Update; Draw shows whatever the last frame painted.
type Game struct {
	mount    MountFunc
	queue    *loop.FrameQueue
	viewport *viewport.Notifier
	surface  *Surface
	handle   *backdrop.Handle

	track    *ambience.Track
	recorder *telemetry.Recorder

	scale   func() float64 // Device pixels per layout unit
	started time.Time
	overlay bool
	sized   bool
}

// Options configures a Game.
type Options struct {
	Background colorful.Color
	Mount      MountFunc
	Track      *ambience.Track     // Optional, shown in the overlay
	Recorder   *telemetry.Recorder // Optional, shown in the overlay
	Overlay    bool
}

// New returns a game that mounts on its first update.
func New(opts Options) *Game {
	return &Game{
		mount:    opts.Mount,
		queue:    loop.NewFrameQueue(),
		viewport: viewport.NewNotifier(0, 0),
		surface:  NewSurface(opts.Background),
		track:    opts.Track,
		recorder: opts.Recorder,
		overlay:  opts.Overlay,
		scale:    deviceScale,
	}
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			return s
		}
	}
	return 1
}

// Configure applies window settings before ebiten.RunGame.
func Configure(w config.WindowConfig) {
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	if w.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if w.TPS > 0 {
		ebiten.SetTPS(w.TPS)
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return g.quit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.overlay = !g.overlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && g.track != nil {
		g.track.TogglePause()
	}

	if g.handle == nil {
		if !g.sized {
			return nil
		}
		h, err := g.mount(backdrop.Host{
			Surface:   g.surface,
			Scheduler: g.queue,
			Viewport:  g.viewport,
		})
		if err != nil {
			return fmt.Errorf("failed to mount backdrop: %w", err)
		}
		g.handle = h
		g.started = time.Now()
		return nil
	}

	g.queue.Advance()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.DrawTo(screen)
	if g.overlay {
		ebitenutil.DebugPrint(screen, g.overlayText())
	}
}

// Layout follows the window so the backdrop always covers it. The screen is
// sized in device pixels to stay sharp on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.scale()
	w := int(math.Ceil(float64(outsideWidth) * s))
	h := int(math.Ceil(float64(outsideHeight) * s))
	g.viewport.Set(w, h)
	g.sized = w > 0 && h > 0
	return w, h
}

func (g *Game) quit() error {
	g.Dispose()
	return ebiten.Termination
}

// Dispose tears down the backdrop and frees the offscreen image.
func (g *Game) Dispose() {
	if g.handle != nil {
		g.handle.Dispose()
	}
	g.surface.Release()
}

func (g *Game) overlayText() string {
	w, h := g.viewport.Size()
	text := fmt.Sprintf("TPS: %0.1f  FPS: %0.1f\nViewport: %dx%d", ebiten.ActualTPS(), ebiten.ActualFPS(), w, h)
	if g.handle != nil {
		text += fmt.Sprintf("\nParticles: %d  Frames: %d  Up: %s",
			len(g.handle.Field()), g.handle.Frames(), formatDuration(time.Since(g.started)))
	}
	if g.recorder != nil {
		if win, ok := g.recorder.Last(); ok {
			text += fmt.Sprintf("\nFrame: mean %.2fms p95 %.2fms", win.MeanMs, win.P95Ms)
		}
	}
	if g.track != nil {
		text += fmt.Sprintf("\nAmbience: %s  %s", g.track.Path(), levelBar(g.track.Level(), 20))
	}
	return text + "\nF3: overlay  Space: pause audio  Esc/Q: quit"
}
