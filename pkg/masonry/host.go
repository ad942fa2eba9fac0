package masonry

import (
	"math"
	"slices"
	"sync"
)

// widthTolerance is the smallest container width change that triggers a
// re-layout.
const widthTolerance = 0.5

// Host holds the state a renderer keeps between layout passes: the current
// items, the last measurement and whether the first layout has been shown.
// It is safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	policy   Policy
	items    []Item
	viewport Size
	width    float64
	current  *Layout
	previous *Layout
	mounted  bool
	dirty    bool
}

// NewHost creates a host for items. A nil policy uses DefaultPolicy.
func NewHost(items []Item, policy Policy) *Host {
	if len(policy) == 0 {
		policy = DefaultPolicy()
	}
	return &Host{
		policy: policy.Sorted(),
		items:  slices.Clone(items),
		dirty:  true,
	}
}

// Measure records a new viewport and container measurement and recomputes
// the layout when needed. It returns the current layout and whether it
// changed. An invalid container width keeps the previous layout.
func (h *Host) Measure(viewport Size, containerWidth float64) (*Layout, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !validWidth(containerWidth) {
		return h.current, false
	}
	cols := h.policy.Columns(viewport.Width)
	h.viewport = viewport
	if !h.dirty && h.current != nil &&
		cols == h.current.Columns &&
		math.Abs(containerWidth-h.width) <= widthTolerance {
		return h.current, false
	}

	l, ok := Compute(containerWidth, cols, h.items)
	if !ok {
		return h.current, false
	}
	h.previous = h.current
	h.current = l
	h.width = containerWidth
	h.dirty = false
	return l, true
}

// Replace swaps the item list. The next Measure recomputes the layout and
// items animate in again as on first mount.
func (h *Host) Replace(items []Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = slices.Clone(items)
	h.mounted = false
	h.dirty = true
}

// Transitions plans the animation for the current layout and marks the host
// as mounted.
func (h *Host) Transitions(opts AnimationOptions) []Transition {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil
	}
	prev := h.previous
	if !h.mounted {
		prev = nil
	}
	t := Plan(h.current, prev, opts, h.viewport, h.mounted)
	h.mounted = true
	return t
}

// Layout returns the most recent layout, or nil before the first valid
// measurement.
func (h *Host) Layout() *Layout {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Mounted reports whether a layout has been shown since the last Replace.
func (h *Host) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounted
}
