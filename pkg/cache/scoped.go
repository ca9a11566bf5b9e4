package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several callers
// can share one cache without colliding:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means the
// default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TopologyKey implements Keyer.
func (k *ScopedKeyer) TopologyKey(root string, opts TopologyKeyOpts) string {
	return k.prefix + k.inner.TopologyKey(root, opts)
}
