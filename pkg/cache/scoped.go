package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation:
// different operators editing different venues on one serve instance get
// separate cache namespaces.
//
// Example usage:
//
//	venueKeyer := NewScopedKeyer(NewDefaultKeyer(), "venue:grand-hall:")
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
func (k *ScopedKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(snapshotHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}

// DocumentKey generates a prefixed key for document caching.
func (k *ScopedKeyer) DocumentKey(name string) string {
	return k.prefix + k.inner.DocumentKey(name)
}
