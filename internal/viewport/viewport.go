// Package viewport keeps a drawing surface sized to its host viewport.
package viewport

import "sync"

// Source reports the host viewport size and notifies on changes. The
// returned func removes the listener.
type Source interface {
	Size() (w, h int)
	OnResize(fn func(w, h int)) (remove func())
}

// Target is anything that can be resized to the viewport.
type Target interface {
	Resize(w, h int)
}

// Adapter mirrors a Source's size onto a Target.
type Adapter struct {
	target Target

	mu     sync.RWMutex
	w, h   int
	remove func()
}

// Attach sizes target once from src and follows every later resize.
func Attach(src Source, target Target) *Adapter {
	a := &Adapter{target: target}
	w, h := src.Size()
	a.apply(w, h)
	a.remove = src.OnResize(a.apply)
	return a
}

func (a *Adapter) apply(w, h int) {
	a.mu.Lock()
	a.w, a.h = w, h
	a.mu.Unlock()
	a.target.Resize(w, h)
}

// Size returns the last applied size.
func (a *Adapter) Size() (w, h int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.w, a.h
}

// Bounds returns the last applied size as floats for the stepper.
func (a *Adapter) Bounds() (w, h float64) {
	iw, ih := a.Size()
	return float64(iw), float64(ih)
}

// Detach removes the resize listener. Safe to call more than once.
func (a *Adapter) Detach() {
	a.mu.Lock()
	remove := a.remove
	a.remove = nil
	a.mu.Unlock()

	if remove != nil {
		remove()
	}
}
