package loop

import (
	"sync"
	"time"
)

// FrameQueue is a Scheduler driven by an external tick, e.g. a game loop's
// Update. Callbacks requested during Advance run on the next Advance.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func()
	order   []FrameID
}

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameID]func())}
}

// RequestFrame implements Scheduler.
func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

// CancelFrame implements Scheduler.
func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// Len reports how many callbacks are waiting.
func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Advance runs every callback that was pending when it was called and
// returns how many ran.
func (q *FrameQueue) Advance() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			fns = append(fns, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// TimerScheduler fires each request on its own goroutine after a fixed
// interval.
type TimerScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	next   FrameID
	timers map[FrameID]*time.Timer
}

// NewTimerScheduler returns a scheduler that fires after interval.
func NewTimerScheduler(interval time.Duration) *TimerScheduler {
	return &TimerScheduler{
		interval: interval,
		timers:   make(map[FrameID]*time.Timer),
	}
}

// RequestFrame implements Scheduler.
func (s *TimerScheduler) RequestFrame(fn func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if live {
			fn()
		}
	})
	return id
}

// CancelFrame implements Scheduler. A timer that already started firing may
// still run its callback.
func (s *TimerScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many timers are armed.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
