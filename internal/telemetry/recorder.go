// Package telemetry aggregates frame durations into windows for logging and
// CSV export.
package telemetry

import (
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Window summarizes frame work over one stats window.
type Window struct {
	StartMs int64   `csv:"start_ms"`
	EndMs   int64   `csv:"end_ms"`
	Frames  int     `csv:"frames"`
	FPS     float64 `csv:"fps"`
	MeanMs  float64 `csv:"mean_ms"`
	P50Ms   float64 `csv:"p50_ms"`
	P95Ms   float64 `csv:"p95_ms"`
	MaxMs   float64 `csv:"max_ms"`
}

// LogValue implements slog.LogValuer for structured logging.
func (w Window) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", w.Frames),
		slog.Float64("fps", w.FPS),
		slog.Float64("mean_ms", w.MeanMs),
		slog.Float64("p50_ms", w.P50Ms),
		slog.Float64("p95_ms", w.P95Ms),
		slog.Float64("max_ms", w.MaxMs),
	)
}

// Options configures a Recorder.
type Options struct {
	Window time.Duration    // Length of a stats window (0 = only explicit Flush)
	Logger *slog.Logger     // nil = slog.Default()
	CSV    io.Writer        // Optional CSV sink
	Now    func() time.Time // nil = time.Now
}

// Recorder collects frame durations.
type Recorder struct {
	opts Options

	mu        sync.Mutex
	start     time.Time
	samples   []float64
	wroteHead bool
	last      Window
	windows   int
}

// NewRecorder returns a recorder whose first window starts now.
func NewRecorder(opts Options) *Recorder {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Recorder{opts: opts, start: opts.Now()}
}

// Observe records one frame's work time and closes the window when it is due.
func (r *Recorder) Observe(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples = append(r.samples, float64(d)/float64(time.Millisecond))
	if r.opts.Window > 0 && r.opts.Now().Sub(r.start) >= r.opts.Window {
		r.flush()
	}
}

// Flush closes the current window early. It returns false when no frames
// were recorded.
func (r *Recorder) Flush() (Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// Last returns the most recently closed window.
func (r *Recorder) Last() (Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.windows > 0
}

func (r *Recorder) flush() (Window, bool) {
	now := r.opts.Now()
	if len(r.samples) == 0 {
		r.start = now
		return Window{}, false
	}

	w := Summarize(r.samples, r.start, now)
	r.samples = r.samples[:0]
	r.start = now
	r.last = w
	r.windows++

	r.opts.Logger.Info("frame stats", "window", w)
	if r.opts.CSV != nil {
		r.writeCSV(w)
	}
	return w, true
}

func (r *Recorder) writeCSV(w Window) {
	rows := []Window{w}
	var err error
	if r.wroteHead {
		err = gocsv.MarshalWithoutHeaders(rows, r.opts.CSV)
	} else {
		err = gocsv.Marshal(rows, r.opts.CSV)
		r.wroteHead = err == nil
	}
	if err != nil {
		r.opts.Logger.Warn("failed to write frame stats", "error", err)
	}
}

// Summarize computes window statistics over frame durations in milliseconds.
func Summarize(ms []float64, start, end time.Time) Window {
	sorted := make([]float64, len(ms))
	copy(sorted, ms)
	sort.Float64s(sorted)

	w := Window{
		StartMs: start.UnixMilli(),
		EndMs:   end.UnixMilli(),
		Frames:  len(sorted),
	}
	if len(sorted) == 0 {
		return w
	}
	if span := end.Sub(start).Seconds(); span > 0 {
		w.FPS = float64(len(sorted)) / span
	}
	w.MeanMs = stat.Mean(sorted, nil)
	w.P50Ms = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	w.P95Ms = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	w.MaxMs = floats.Max(sorted)
	return w
}
