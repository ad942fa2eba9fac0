package masonry

import (
	"cmp"
	"slices"
)

// MaxColumns is the largest column count a layout may use.
const MaxColumns = 64

// Breakpoint maps a minimum viewport width to a column count.
type Breakpoint struct {
	MinWidth float64 `json:"min_width" toml:"min_width"`
	Columns  int     `json:"columns" toml:"columns"`
}

// Policy is an ordered list of breakpoints, widest first. The first
// breakpoint whose MinWidth is at most the viewport width wins.
type Policy []Breakpoint

// DefaultPolicy returns the standard responsive breakpoints.
func DefaultPolicy() Policy {
	return Policy{
		{MinWidth: 1500, Columns: 5},
		{MinWidth: 1000, Columns: 4},
		{MinWidth: 600, Columns: 3},
		{MinWidth: 400, Columns: 2},
	}
}

// Columns returns the column count for a viewport width. The result is
// always at least 1.
func (p Policy) Columns(viewportWidth float64) int {
	for _, bp := range p {
		if viewportWidth >= bp.MinWidth {
			return max(bp.Columns, 1)
		}
	}
	return 1
}

// Sorted returns a copy of p ordered widest breakpoint first, which is the
// order Columns expects.
func (p Policy) Sorted() Policy {
	out := slices.Clone(p)
	slices.SortStableFunc(out, func(a, b Breakpoint) int {
		return cmp.Compare(b.MinWidth, a.MinWidth)
	})
	return out
}
