package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation. The
// hosted API uses this so different projects never share solve results
// even when they submit identical cases.
//
// Example usage:
//
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:abc123:")
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

// SolveKey generates a prefixed key for a solve result.
func (k *ScopedKeyer) SolveKey(caseHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(caseHash, opts)
}

// CaseKey generates a prefixed key for a parsed case document.
func (k *ScopedKeyer) CaseKey(source string) string {
	return k.prefix + k.inner.CaseKey(source)
}
