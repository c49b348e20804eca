// Package snapshot renders a fixed number of backdrop frames offscreen and
// writes the last one as a PNG.
package snapshot

import (
	"fmt"
	"image/png"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/backdrop"
	"github.com/iburimskiy/backdrop/internal/loop"
	"github.com/iburimskiy/backdrop/internal/raster"
	"github.com/iburimskiy/backdrop/internal/viewport"
)

// Render mounts the backdrop on a w x h canvas, runs frames frames and
// encodes the result to out.
func Render(out io.Writer, w, h, frames int, background colorful.Color, opts backdrop.Options) error {
	if frames < 1 {
		return fmt.Errorf("snapshot: need at least one frame, got %d", frames)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("snapshot: size must be positive, got %dx%d", w, h)
	}
	canvas := raster.New(w, h, background)
	queue := loop.NewFrameQueue()

	handle, err := backdrop.Mount(backdrop.Host{
		Surface:   canvas,
		Scheduler: queue,
		Viewport:  viewport.NewNotifier(w, h),
	}, opts)
	if err != nil {
		return err
	}
	// Mount already ran the first frame.
	for i := 1; i < frames; i++ {
		queue.Advance()
	}
	handle.Dispose()

	if err := png.Encode(out, canvas.Image()); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}
