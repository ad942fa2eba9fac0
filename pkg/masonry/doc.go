// Package masonry computes masonry grid layouts.
//
// A masonry layout packs items of varying height into a fixed number of
// equal-width columns. Each item goes to the column that is currently the
// shortest, so columns grow evenly without reordering the input.
//
// # Layout
//
// [Compute] is a pure function of its inputs: the container width, the
// column count and the item list. It performs no I/O and keeps no state, so
// it can be called from any goroutine:
//
//	cols := masonry.DefaultPolicy().Columns(viewportWidth)
//	l, ok := masonry.Compute(containerWidth, cols, items)
//	if !ok {
//	    // container not measured yet; retry on the next resize
//	}
//
// The column count comes from a [Policy], a step function of the reference
// viewport width rather than the container width.
//
// # Hosts
//
// [Host] wraps the engine with the re-layout bookkeeping a renderer needs:
// the last measured widths, the current items and whether a first layout has
// been produced. [Plan] turns a layout into entry or move transitions for a
// renderer to animate.
package masonry
