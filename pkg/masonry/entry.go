package masonry

import (
	"fmt"
	"strings"
	"time"
)

// Origin is the direction items enter from on the first layout.
type Origin string

const (
	FromTop    Origin = "top"
	FromBottom Origin = "bottom"
	FromLeft   Origin = "left"
	FromRight  Origin = "right"
	FromCenter Origin = "center"
	FromNone   Origin = "none" // drop in from just below the final position
)

// offscreen is how far outside the viewport entering items start.
const offscreen = 200

// ParseOrigin parses an origin name. The empty string means FromBottom.
func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return FromBottom, nil
	case FromTop, FromBottom, FromLeft, FromRight, FromCenter, FromNone:
		return o, nil
	}
	return "", fmt.Errorf("unknown origin %q", s)
}

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a viewport measurement.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EntryStart returns where an item starts before animating into place on
// the first layout.
func EntryStart(p Placed, from Origin, viewport Size, containerWidth float64) Point {
	switch from {
	case FromTop:
		return Point{X: p.X, Y: -offscreen}
	case FromBottom:
		return Point{X: p.X, Y: viewport.Height + offscreen}
	case FromLeft:
		return Point{X: -offscreen, Y: p.Y}
	case FromRight:
		return Point{X: viewport.Width + offscreen, Y: p.Y}
	case FromCenter:
		return Point{X: containerWidth/2 - p.W/2, Y: offscreen}
	default:
		return Point{X: p.X, Y: p.Y + 100}
	}
}

// AnimationOptions controls transition planning.
type AnimationOptions struct {
	From        Origin        `toml:"from"`
	Duration    time.Duration `toml:"duration"`
	Stagger     time.Duration `toml:"stagger"`
	BlurToFocus bool          `toml:"blur_to_focus"`
}

// DefaultAnimation returns the default animation options.
func DefaultAnimation() AnimationOptions {
	return AnimationOptions{
		From:        FromBottom,
		Duration:    600 * time.Millisecond,
		Stagger:     50 * time.Millisecond,
		BlurToFocus: true,
	}
}

// entryDuration is the fixed duration of first-mount transitions.
const entryDuration = 800 * time.Millisecond

// Transition describes how a renderer should move one item.
type Transition struct {
	ID       string        `json:"id"`
	From     Point         `json:"from"`
	To       Point         `json:"to"`
	W        float64       `json:"w"`
	H        float64       `json:"h"`
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration"`
	Fade     bool          `json:"fade"`
	Blur     bool          `json:"blur"`
}

// Plan returns one transition per placed item. Before the first mount items
// fade in from their entry origin with a staggered delay; afterwards they
// move in place from prev (when known) to their new position.
func Plan(l *Layout, prev *Layout, opts AnimationOptions, viewport Size, mounted bool) []Transition {
	if l == nil {
		return nil
	}
	out := make([]Transition, len(l.Items))
	for i, p := range l.Items {
		to := Point{X: p.X, Y: p.Y}
		t := Transition{ID: p.ID, To: to, W: p.W, H: p.H}
		if !mounted {
			t.From = EntryStart(p, opts.From, viewport, l.Width)
			t.Delay = time.Duration(i) * opts.Stagger
			t.Duration = entryDuration
			t.Fade = true
			t.Blur = opts.BlurToFocus
		} else {
			t.From = to
			if prev != nil {
				if old, ok := prev.Find(p.ID); ok {
					t.From = Point{X: old.X, Y: old.Y}
				}
			}
			t.Duration = opts.Duration
		}
		out[i] = t
	}
	return out
}
