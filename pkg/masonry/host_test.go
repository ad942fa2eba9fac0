package masonry

import (
	"sync"
	"testing"
)

func TestHostMeasure(t *testing.T) {
	h := NewHost(heights(100, 100, 100), nil)

	if l, changed := h.Measure(Size{Width: 1200}, 0); l != nil || changed {
		t.Fatalf("unmeasured container should not lay out, got %v %v", l, changed)
	}

	l, changed := h.Measure(Size{Width: 1200}, 1000)
	if !changed || l == nil || l.Columns != 4 {
		t.Fatalf("first measure = %+v, %v", l, changed)
	}

	if _, changed := h.Measure(Size{Width: 1200}, 1000.2); changed {
		t.Error("sub-unit width jitter should not re-layout")
	}

	if l2, changed := h.Measure(Size{Width: 1200}, -5); changed || l2 != l {
		t.Error("invalid width should keep the previous layout")
	}

	l3, changed := h.Measure(Size{Width: 500}, 480)
	if !changed || l3.Columns != 2 {
		t.Errorf("resize = %+v, %v", l3, changed)
	}
	if h.Layout() != l3 {
		t.Error("Layout() should return the latest layout")
	}
}

func TestHostMountLifecycle(t *testing.T) {
	h := NewHost(heights(100, 50), nil)
	if h.Transitions(DefaultAnimation()) != nil {
		t.Fatal("no transitions before a layout exists")
	}

	h.Measure(Size{Width: 800, Height: 600}, 800)
	first := h.Transitions(DefaultAnimation())
	if len(first) != 2 || !first[0].Fade {
		t.Fatalf("first transitions = %+v", first)
	}
	if !h.Mounted() {
		t.Fatal("host should be mounted after planning")
	}

	h.Measure(Size{Width: 1600, Height: 600}, 1600)
	moved := h.Transitions(DefaultAnimation())
	if moved[0].Fade {
		t.Error("relayout after mount should animate in place")
	}

	h.Replace(heights(10))
	if h.Mounted() {
		t.Error("Replace should reset the mounted flag")
	}
	l, changed := h.Measure(Size{Width: 1600, Height: 600}, 1600)
	if !changed || len(l.Items) != 1 {
		t.Errorf("Replace should force a re-layout, got %+v %v", l, changed)
	}
}

func TestHostConcurrentMeasure(t *testing.T) {
	h := NewHost(heights(1, 2, 3, 4, 5, 6, 7, 8), nil)
	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func(w float64) {
			defer wg.Done()
			h.Measure(Size{Width: w}, w)
			h.Transitions(DefaultAnimation())
		}(float64(i * 100))
	}
	wg.Wait()
	if h.Layout() == nil {
		t.Error("expected a layout")
	}
}
