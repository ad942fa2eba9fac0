package masonry

import "math"

// HeightScale is applied to every intrinsic item height before packing.
const HeightScale = 0.5

// Item is a unit of content to pack into a column.
type Item struct {
	ID     string  `json:"id" toml:"id"`
	Img    string  `json:"img" toml:"img"`
	Height float64 `json:"height" toml:"height"`
	URL    string  `json:"url,omitempty" toml:"url"`
}

// Placed is an Item with its computed position.
type Placed struct {
	Item
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
}

// Layout is the result of one layout pass.
type Layout struct {
	Width         float64   `json:"width"`
	Columns       int       `json:"columns"`
	ColumnWidth   float64   `json:"column_width"`
	ColumnHeights []float64 `json:"column_heights"`
	TotalHeight   float64   `json:"total_height"`
	Items         []Placed  `json:"items"`
}

// Compute packs items into columns of equal width, placing each item in the
// currently shortest column (lowest index on ties).
//
// The second return value is false when containerWidth is not a positive
// finite number, in which case no layout is produced. A column count below 1
// is treated as 1 and one above MaxColumns as MaxColumns.
func Compute(containerWidth float64, columns int, items []Item) (*Layout, bool) {
	if !validWidth(containerWidth) {
		return nil, false
	}
	columns = min(max(columns, 1), MaxColumns)

	colWidth := containerWidth / float64(columns)
	heights := make([]float64, columns)
	placed := make([]Placed, len(items))

	for i, it := range items {
		col := shortest(heights)
		h := it.Height * HeightScale
		placed[i] = Placed{
			Item:   it,
			Column: col,
			X:      float64(col) * colWidth,
			Y:      heights[col],
			W:      colWidth,
			H:      h,
		}
		heights[col] += h
	}

	var total float64
	for _, h := range heights {
		total = math.Max(total, h)
	}

	return &Layout{
		Width:         containerWidth,
		Columns:       columns,
		ColumnWidth:   colWidth,
		ColumnHeights: heights,
		TotalHeight:   total,
		Items:         placed,
	}, true
}

// shortest returns the index of the smallest value, first occurrence on ties.
func shortest(heights []float64) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}

func validWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// Find returns the placement for the item with the given id.
func (l *Layout) Find(id string) (Placed, bool) {
	for _, p := range l.Items {
		if p.ID == id {
			return p, true
		}
	}
	return Placed{}, false
}

// Bounds returns the lowest edge of any placed item. It matches TotalHeight
// for every layout produced by Compute.
func (l *Layout) Bounds() float64 {
	var b float64
	for _, p := range l.Items {
		b = math.Max(b, p.Y+p.H)
	}
	return b
}

// InColumn returns the placements assigned to column col, top to bottom.
func (l *Layout) InColumn(col int) []Placed {
	var out []Placed
	for _, p := range l.Items {
		if p.Column == col {
			out = append(out, p)
		}
	}
	return out
}
