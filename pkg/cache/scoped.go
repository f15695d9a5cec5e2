package cache

// ScopedKeyer wraps a Keyer with a prefix so several users or deployments
// can share one Redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "team-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) GraphKey(source, query string, minStrength float64) string {
	return k.prefix + k.inner.GraphKey(source, query, minStrength)
}
