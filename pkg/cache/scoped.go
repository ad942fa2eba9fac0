package cache

// ScopedKeyer wraps a Keyer with a prefix so several galleries can share one
// backend without colliding.
//
// Example usage:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "gallery:portfolio:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(itemsHash, opts)
}

// ProbeKey generates a prefixed key for probe caching.
func (k *ScopedKeyer) ProbeKey(ref string) string {
	return k.prefix + k.inner.ProbeKey(ref)
}
