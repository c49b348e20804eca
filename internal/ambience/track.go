// Package ambience plays an optional looping soundtrack next to the
// backdrop and exposes its loudness for the debug overlay.
package ambience

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	meterRingSize   = 8192
	smoothingFactor = 0.6
)

// ErrUnsupported is returned for files that are not wav, mp3 or flac.
var ErrUnsupported = errors.New("unsupported audio file")

// speakerInit is shared by every Track; the speaker can only be initialized
// once per sample rate.
var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// Track is a decoded, looping soundtrack.
type Track struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	meter    *meter

	mu      sync.Mutex
	playing bool
	closed  bool
}

// Open decodes path by extension.
func Open(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	m := newMeter(beep.Loop(-1, streamer), meterRingSize)
	return &Track{
		path:     path,
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: m},
		meter:    m,
	}, nil
}

// Path returns the file the track was opened from.
func (t *Track) Path() string { return t.path }

// Duration is the length of one loop.
func (t *Track) Duration() time.Duration {
	return t.format.SampleRate.D(t.streamer.Len())
}

// Play starts looping playback through the speaker.
func (t *Track) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.New("ambience: track closed")
	}
	if t.playing {
		return nil
	}

	speakerMu.Lock()
	if speakerRate != t.format.SampleRate {
		if speakerRate != 0 {
			speaker.Lock()
			speaker.Clear()
			speaker.Unlock()
		}
		if err := speaker.Init(t.format.SampleRate, t.format.SampleRate.N(time.Second/20)); err != nil {
			speakerMu.Unlock()
			return fmt.Errorf("failed to init speaker: %w", err)
		}
		speakerRate = t.format.SampleRate
	}
	speakerMu.Unlock()

	speaker.Play(t.ctrl)
	t.playing = true
	return nil
}

// TogglePause flips the paused state and returns the new value.
func (t *Track) TogglePause() bool {
	speaker.Lock()
	defer speaker.Unlock()
	t.ctrl.Paused = !t.ctrl.Paused
	return t.ctrl.Paused
}

// Level is the current loudness in [0, 1].
func (t *Track) Level() float64 {
	return t.meter.Level()
}

// Close stops playback and releases the file. Safe to call more than once.
func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.playing {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
		t.playing = false
	}
	err := t.streamer.Close()
	// Some decoders close the file themselves.
	if ferr := t.file.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) {
		err = errors.Join(err, ferr)
	}
	return err
}
