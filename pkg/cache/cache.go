// Package cache stores solve results keyed by a content hash of the
// request. A cache hit replays the full normalized result without invoking
// a solver backend.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract shared by the file, Redis, and null
// implementations. Values are opaque byte payloads; callers own
// serialization.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// SolveKeyOpts are the parameters that change a solve outcome for the same
// case document. Anything listed here is part of the cache key; anything
// omitted must not affect results.
type SolveKeyOpts struct {
	Algorithm     int
	DC            bool
	Breakpoints   int
	MaxIterations int

	// PolyAlgorithm and PWLAlgorithm decide which algorithm automatic
	// selection falls back to, so they change the outcome even though
	// Algorithm itself reads 0.
	PolyAlgorithm int
	PWLAlgorithm  int

	// ConstraintsHash is the content hash of the extra linear constraint
	// set, empty when none were supplied.
	ConstraintsHash string
}

// Keyer generates cache keys. Implementations must be deterministic:
// identical inputs always produce identical keys.
type Keyer interface {
	// SolveKey generates the key for a solve result given the case's
	// content hash and the outcome-relevant options.
	SolveKey(caseHash string, opts SolveKeyOpts) string

	// CaseKey generates the key for a parsed case document loaded from
	// the given source path or URL.
	CaseKey(source string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SolveKey generates a key for a solve result.
func (k *DefaultKeyer) SolveKey(caseHash string, opts SolveKeyOpts) string {
	return hashKey("solve", caseHash, opts.Algorithm, opts.DC, opts.Breakpoints, opts.MaxIterations, opts.PolyAlgorithm, opts.PWLAlgorithm, opts.ConstraintsHash)
}

// CaseKey generates a key for a parsed case document.
func (k *DefaultKeyer) CaseKey(source string) string {
	return hashKey("case", source)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
