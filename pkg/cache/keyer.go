package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of a specific item list.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ProbeKey identifies the probed dimensions of an image reference.
	ProbeKey(ref string) string
}

// LayoutKeyOpts are the layout inputs besides the items themselves.
type LayoutKeyOpts struct {
	ContainerWidth float64 `json:"container_width"`
	Columns        int     `json:"columns"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>" over the items hash and options.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ProbeKey returns "probe:<ref>".
func (DefaultKeyer) ProbeKey(ref string) string {
	return fmt.Sprintf("probe:%s", ref)
}
