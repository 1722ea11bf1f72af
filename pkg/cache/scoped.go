package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, used
// when one backend serves several deployments that must not share
// artifacts (the cache.scope config option):
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// OrderKey generates a prefixed key for resolved ordering caching.
func (k *ScopedKeyer) OrderKey(docHash string, opts OrderKeyOpts) string {
	return k.prefix + k.inner.OrderKey(docHash, opts)
}

// ViewKey generates a prefixed key for text view caching.
func (k *ScopedKeyer) ViewKey(docHash string, opts ViewKeyOpts) string {
	return k.prefix + k.inner.ViewKey(docHash, opts)
}

// RenderKey generates a prefixed key for render artifact caching.
func (k *ScopedKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(docHash, opts)
}
