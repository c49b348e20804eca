package ambience

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// meter passes audio through and remembers the most recent window of
// samples so the host can show how loud the ambience currently is.
type meter struct {
	src beep.Streamer

	mu    sync.Mutex
	ring  [][2]float64
	head  int // Next write position
	n     int // Valid samples in ring
	level float64
}

func newMeter(src beep.Streamer, window int) *meter {
	return &meter{src: src, ring: make([][2]float64, window)}
}

// Stream implements beep.Streamer.
func (m *meter) Stream(samples [][2]float64) (int, bool) {
	n, ok := m.src.Stream(samples)
	if n == 0 {
		return n, ok
	}
	tail := samples[:n]
	if len(tail) > len(m.ring) {
		tail = tail[len(tail)-len(m.ring):]
	}

	m.mu.Lock()
	for len(tail) > 0 {
		c := copy(m.ring[m.head:], tail)
		tail = tail[c:]
		m.head = (m.head + c) % len(m.ring)
		m.n = min(len(m.ring), m.n+c)
	}
	m.mu.Unlock()
	return n, ok
}

// Err implements beep.Streamer.
func (m *meter) Err() error { return m.src.Err() }

// Level returns a smoothed, compressed RMS of the buffered samples in [0, 1].
func (m *meter) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.n == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range m.ring[:m.n] {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	rms := math.Sqrt(sumSquares / float64(m.n))
	mag := math.Min(1, math.Pow(rms, 0.3))
	m.level = smoothingFactor*m.level + (1-smoothingFactor)*mag
	return m.level
}
