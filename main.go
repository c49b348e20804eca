package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/backdrop/internal/ambience"
	"github.com/iburimskiy/backdrop/internal/backdrop"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/host/ebitenhost"
	"github.com/iburimskiy/backdrop/internal/host/snapshot"
	"github.com/iburimskiy/backdrop/internal/host/termhost"
	"github.com/iburimskiy/backdrop/internal/telemetry"
)

type flags struct {
	configPath string
	host       string
	seed       uint64
	count      int
	audio      string
	pickAudio  bool
	out        string
	width      int
	height     int
	frames     int
	statsCSV   string
	logLevel   string
	logFormat  string
	logFile    string
	debug      bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to backdrop.yaml (empty = use defaults)")
	flag.StringVar(&f.host, "host", "window", "Where to run: window, terminal or snapshot")
	flag.Uint64Var(&f.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&f.count, "count", 0, "Override particle count (0 = use config)")
	flag.StringVar(&f.audio, "audio", "", "Ambience track to loop (wav, mp3, flac)")
	flag.BoolVar(&f.pickAudio, "pick-audio", false, "Choose the ambience track with a file dialog")
	flag.StringVar(&f.out, "out", "backdrop.png", "Snapshot output file")
	flag.IntVar(&f.width, "width", 0, "Snapshot width (0 = window width)")
	flag.IntVar(&f.height, "height", 0, "Snapshot height (0 = window height)")
	flag.IntVar(&f.frames, "frames", 120, "Frames to simulate before writing the snapshot")
	flag.StringVar(&f.statsCSV, "stats-csv", "", "Write frame stats CSV here (overrides config)")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&f.logFormat, "log-format", "json", "Log format: json or text")
	flag.StringVar(&f.logFile, "log-file", "", "Log destination (empty = stderr, discarded in terminal mode)")
	flag.BoolVar(&f.debug, "debug", false, "Start with the debug overlay visible")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	logger, closeLog, err := newLogger(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(f, logger); err != nil {
		logger.Error("backdrop failed", "error", err)
		if f.host == "window" {
			_ = zenity.Error(err.Error(), zenity.Title("Backdrop"), zenity.ErrorIcon)
		}
		closeLog()
		os.Exit(1)
	}
}

func newLogger(f flags) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid -log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case f.logFile != "":
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = file
		closeLog = func() { _ = file.Close() }
	case f.host == "terminal":
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(f.logFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts)), closeLog, nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), closeLog, nil
}

func run(f flags, logger *slog.Logger) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.count > 0 {
		cfg.Count = f.count
	}
	if f.statsCSV != "" {
		cfg.Telemetry.CSV = f.statsCSV
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	background, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}

	opts := backdrop.Options{Config: cfg, Logger: logger}
	if f.seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15))
	}

	var csvFile *os.File
	if cfg.Telemetry.CSV != "" {
		csvFile, err = os.Create(cfg.Telemetry.CSV)
		if err != nil {
			return fmt.Errorf("failed to create stats csv: %w", err)
		}
		defer csvFile.Close()
	}
	recOpts := telemetry.Options{Window: cfg.Telemetry.Window, Logger: logger}
	if csvFile != nil {
		recOpts.CSV = csvFile
	}
	opts.Recorder = telemetry.NewRecorder(recOpts)

	switch f.host {
	case "window":
		return runWindow(f, cfg, opts, background, logger)
	case "terminal":
		return runTerminal(cfg, opts, background)
	case "snapshot":
		return runSnapshot(f, cfg, opts, background, logger)
	default:
		return fmt.Errorf("unknown -host %q", f.host)
	}
}

func openTrack(f flags, logger *slog.Logger) (*ambience.Track, error) {
	path := f.audio
	if f.pickAudio {
		picked, err := ambience.Pick()
		if err != nil {
			return nil, err
		}
		if picked != "" {
			path = picked
		}
	}
	if path == "" {
		return nil, nil
	}

	track, err := ambience.Open(path)
	if err != nil {
		return nil, err
	}
	if err := track.Play(); err != nil {
		_ = track.Close()
		return nil, err
	}
	logger.Info("ambience playing", "path", path, "duration", track.Duration())
	return track, nil
}

func runWindow(f flags, cfg config.Options, opts backdrop.Options, background colorful.Color, logger *slog.Logger) error {
	track, err := openTrack(f, logger)
	if err != nil {
		// The backdrop is still useful without sound.
		logger.Warn("ambience unavailable", "error", err)
	}
	if track != nil {
		opts.Closers = append(opts.Closers, track)
	}

	ebitenhost.Configure(cfg.Window)
	g := ebitenhost.New(ebitenhost.Options{
		Background: background,
		Track:      track,
		Recorder:   opts.Recorder,
		Overlay:    f.debug,
		Mount: func(host backdrop.Host) (*backdrop.Handle, error) {
			return backdrop.Mount(host, opts)
		},
	})
	defer g.Dispose()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runTerminal(cfg config.Options, opts backdrop.Options, background colorful.Color) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	h := termhost.New(screen, background, cfg.Terminal.FrameInterval)
	defer h.Close()

	handle, err := backdrop.Mount(h.Backdrop(), opts)
	if err != nil {
		return err
	}
	defer handle.Dispose()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := h.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runSnapshot(f flags, cfg config.Options, opts backdrop.Options, background colorful.Color, logger *slog.Logger) error {
	w, h := f.width, f.height
	if w <= 0 {
		w = cfg.Window.Width
	}
	if h <= 0 {
		h = cfg.Window.Height
	}

	out, err := os.Create(f.out)
	if err != nil {
		return err
	}
	if err := snapshot.Render(out, w, h, f.frames, background, opts); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", f.out, "width", w, "height", h, "frames", f.frames)
	return nil
}
