package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// backend without colliding.
//
// Example usage:
//
//	// Per-session keys on a shared redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
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

// CompositionKey generates a prefixed composition key.
func (k *ScopedKeyer) CompositionKey(opts CompositionKeyOpts) string {
	return k.prefix + k.inner.CompositionKey(opts)
}

// FillKey generates a prefixed fill key.
func (k *ScopedKeyer) FillKey(compositionHash string, opts FillKeyOpts) string {
	return k.prefix + k.inner.FillKey(compositionHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(compositionHash, opts)
}
