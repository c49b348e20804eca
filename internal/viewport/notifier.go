package viewport

import "sync"

// Notifier is a Source that hosts feed with their own resize events.
type Notifier struct {
	dispatch  sync.Mutex // Orders deliveries; held while listeners run
	mu        sync.Mutex
	w, h      int
	next      int
	listeners map[int]func(w, h int)
}

// NewNotifier starts at w x h.
func NewNotifier(w, h int) *Notifier {
	return &Notifier{w: w, h: h, listeners: make(map[int]func(w, h int))}
}

// Size implements Source.
func (n *Notifier) Size() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.w, n.h
}

// OnResize implements Source.
func (n *Notifier) OnResize(fn func(w, h int)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// Listeners reports how many listeners are registered.
func (n *Notifier) Listeners() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Set records a new size and notifies listeners when it changed. Concurrent
// calls deliver in the order they recorded their size, so the last size
// stored is also the last one listeners see. Listeners must not call Set.
func (n *Notifier) Set(w, h int) bool {
	n.dispatch.Lock()
	defer n.dispatch.Unlock()

	n.mu.Lock()
	if w == n.w && h == n.h {
		n.mu.Unlock()
		return false
	}
	n.w, n.h = w, h
	fns := make([]func(w, h int), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(w, h)
	}
	return true
}
