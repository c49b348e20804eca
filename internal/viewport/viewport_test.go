package viewport

import (
	"sync"
	"testing"
)

type fakeTarget struct {
	sizes [][2]int
}

func (f *fakeTarget) Resize(w, h int) { f.sizes = append(f.sizes, [2]int{w, h}) }

func TestAttachAppliesInitialSize(t *testing.T) {
	n := NewNotifier(800, 600)
	tgt := &fakeTarget{}
	a := Attach(n, tgt)

	if w, h := a.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}
	if len(tgt.sizes) != 1 || tgt.sizes[0] != [2]int{800, 600} {
		t.Errorf("target resizes = %v, want [[800 600]]", tgt.sizes)
	}
	if n.Listeners() != 1 {
		t.Errorf("listeners = %d, want 1", n.Listeners())
	}
}

func TestResizeFollowsSource(t *testing.T) {
	n := NewNotifier(800, 600)
	tgt := &fakeTarget{}
	a := Attach(n, tgt)

	n.Set(400, 300)
	n.Set(400, 300) // unchanged, no notification
	n.Set(1024, 768)

	if w, h := a.Bounds(); w != 1024 || h != 768 {
		t.Errorf("Bounds() = %vx%v, want 1024x768", w, h)
	}
	want := [][2]int{{800, 600}, {400, 300}, {1024, 768}}
	if len(tgt.sizes) != len(want) {
		t.Fatalf("target resizes = %v, want %v", tgt.sizes, want)
	}
	for i := range want {
		if tgt.sizes[i] != want[i] {
			t.Errorf("resize %d = %v, want %v", i, tgt.sizes[i], want[i])
		}
	}
}

func TestDetach(t *testing.T) {
	n := NewNotifier(10, 10)
	tgt := &fakeTarget{}
	a := Attach(n, tgt)

	a.Detach()
	a.Detach()
	if n.Listeners() != 0 {
		t.Errorf("listeners after detach = %d, want 0", n.Listeners())
	}

	n.Set(20, 20)
	if w, h := a.Size(); w != 10 || h != 10 {
		t.Errorf("detached adapter followed resize to %dx%d", w, h)
	}
	if len(tgt.sizes) != 1 {
		t.Errorf("detached target resized: %v", tgt.sizes)
	}
}

func TestConcurrentSetLastSizeWins(t *testing.T) {
	n := NewNotifier(1, 1)

	var mu sync.Mutex
	var last [2]int
	n.OnResize(func(w, h int) {
		mu.Lock()
		last = [2]int{w, h}
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				n.Set(10+i, 10+j)
			}
		}(i)
	}
	wg.Wait()

	w, h := n.Size()
	mu.Lock()
	defer mu.Unlock()
	if last != [2]int{w, h} {
		t.Errorf("listener saw %v last, notifier holds %dx%d", last, w, h)
	}
}

func TestAdapterFollowsConcurrentSets(t *testing.T) {
	n := NewNotifier(1, 1)
	target := &lockedTarget{}
	a := Attach(n, target)
	defer a.Detach()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n.Set(100+i, 100+j)
			}
		}(i)
	}
	wg.Wait()

	w, h := n.Size()
	if got := target.size(); got != [2]int{w, h} {
		t.Errorf("surface = %v, source = %dx%d", got, w, h)
	}
	if aw, ah := a.Size(); aw != w || ah != h {
		t.Errorf("adapter = %dx%d, source = %dx%d", aw, ah, w, h)
	}
}

type lockedTarget struct {
	mu   sync.Mutex
	last [2]int
}

func (l *lockedTarget) Resize(w, h int) {
	l.mu.Lock()
	l.last = [2]int{w, h}
	l.mu.Unlock()
}

func (l *lockedTarget) size() [2]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
