// Package backdrop mounts the particle animation onto a host surface.
package backdrop

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/loop"
	"github.com/iburimskiy/backdrop/internal/particle"
	"github.com/iburimskiy/backdrop/internal/render"
	"github.com/iburimskiy/backdrop/internal/telemetry"
	"github.com/iburimskiy/backdrop/internal/viewport"
)

// Surface is a drawing target the viewport adapter can resize.
type Surface interface {
	render.Surface
	viewport.Target
}

// Host is everything the backdrop consumes from its environment.
type Host struct {
	Surface   Surface
	Scheduler loop.Scheduler
	Viewport  viewport.Source
}

// Options configures one mount.
type Options struct {
	Config config.Options

	// Rand seeds the field. nil uses a time-seeded source.
	Rand *rand.Rand
	// Particles replaces random seeding; the slice is copied.
	Particles particle.Field

	Logger   *slog.Logger
	Recorder *telemetry.Recorder

	// Closers are released on Dispose, e.g. an ambience track.
	Closers []io.Closer
}

// Handle is a mounted backdrop.
type Handle struct {
	surface  Surface
	adapter  *viewport.Adapter
	ctrl     *loop.Controller
	mode     render.BlendMode
	logger   *slog.Logger
	recorder *telemetry.Recorder
	closers  []io.Closer

	mu    sync.Mutex
	field particle.Field

	disposeOnce sync.Once
}

// Mount sizes the surface, seeds the field and starts the frame loop. Invalid
// configuration and missing host parts are reported here and never later.
func Mount(host Host, opts Options) (*Handle, error) {
	if host.Surface == nil || host.Scheduler == nil || host.Viewport == nil {
		return nil, errors.New("backdrop: host needs a surface, scheduler and viewport")
	}
	params, err := opts.Config.Params()
	if err != nil {
		return nil, fmt.Errorf("backdrop: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}

	h := &Handle{
		surface:  host.Surface,
		mode:     opts.Config.BlendMode,
		logger:   logger,
		recorder: opts.Recorder,
		closers:  opts.Closers,
	}
	h.adapter = viewport.Attach(host.Viewport, host.Surface)

	w, ht := h.adapter.Bounds()
	if opts.Particles != nil {
		h.field = opts.Particles.Clone()
	} else {
		h.field = particle.NewField(params, w, ht, rng)
	}

	h.ctrl = loop.New(host.Scheduler, h.frame)
	logger.Info("backdrop mounted",
		"count", len(h.field),
		"width", w,
		"height", ht,
		"blend", h.mode.String(),
	)
	if err := h.ctrl.Start(); err != nil {
		h.adapter.Detach()
		return nil, err
	}
	return h, nil
}

func (h *Handle) frame() {
	if !h.surface.Ready() {
		return
	}
	w, ht := h.adapter.Bounds()

	h.mu.Lock()
	start := time.Now()
	h.field.Step(w, ht)
	render.Draw(h.surface, h.field, h.mode)
	elapsed := time.Since(start)
	h.mu.Unlock()

	if h.recorder != nil {
		h.recorder.Observe(elapsed)
	}
}

// Dispose stops the frame loop, removes the resize listener and releases
// closers. Later calls do nothing.
func (h *Handle) Dispose() {
	h.disposeOnce.Do(func() {
		h.ctrl.Cancel()
		h.adapter.Detach()

		if h.recorder != nil {
			h.recorder.Flush()
		}
		for _, c := range h.closers {
			if err := c.Close(); err != nil {
				h.logger.Warn("failed to release backdrop resource", "error", err)
			}
		}
		h.logger.Info("backdrop disposed", "frames", h.ctrl.Frames())
	})
}

// Field returns a copy of the current particles.
func (h *Handle) Field() particle.Field {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.field.Clone()
}

// State reports the loop state.
func (h *Handle) State() loop.State { return h.ctrl.State() }

// Frames reports how many frames have run.
func (h *Handle) Frames() uint64 { return h.ctrl.Frames() }

// Size reports the surface size the backdrop is currently bounded by.
func (h *Handle) Size() (w, ht int) { return h.adapter.Size() }
