// Package loop runs a frame function once per display refresh until cancelled.
package loop

import (
	"errors"
	"sync"
)

// FrameID identifies one pending frame request.
type FrameID uint64

// Scheduler is the host's request-once frame primitive.
//
// RequestFrame must invoke fn later, never from inside the RequestFrame call.
// CancelFrame revokes a request that has not fired yet; revoking an unknown
// or already fired id is a no-op.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// State is the controller lifecycle.
type State int32

const (
	Idle State = iota
	Running
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// ErrNotIdle is returned by Start on a controller that already left Idle.
var ErrNotIdle = errors.New("loop: controller already started")

// Controller calls frame once per scheduled callback with at most one
// request outstanding.
type Controller struct {
	sched Scheduler
	frame func()

	mu         sync.Mutex
	state      State
	pending    FrameID
	hasPending bool
	frames     uint64
}

// New returns an idle controller.
func New(sched Scheduler, frame func()) *Controller {
	return &Controller{sched: sched, frame: frame}
}

// Start runs the first frame immediately and schedules the next one.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return ErrNotIdle
	}
	c.state = Running
	c.mu.Unlock()

	c.run()
	return nil
}

// Cancel stops the loop and revokes the pending request. Safe to call more
// than once and from any goroutine.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Cancelled {
		return
	}
	c.state = Cancelled
	if c.hasPending {
		c.sched.CancelFrame(c.pending)
		c.hasPending = false
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Frames reports how many frames have run.
func (c *Controller) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

func (c *Controller) onFrame() {
	c.mu.Lock()
	c.hasPending = false
	if c.state != Running {
		// A callback the host could not revoke in time.
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.run()
}

func (c *Controller) run() {
	c.frame()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames++
	if c.state != Running {
		return
	}
	c.pending = c.sched.RequestFrame(c.onFrame)
	c.hasPending = true
}
