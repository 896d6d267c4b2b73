// Package history archives solve runs. Every completed invocation leaves a
// record regardless of convergence, so operators can audit which
// algorithms ran against which cases and how they fared.
package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/voltlab/gridopt/pkg/errors"
)

// Record is one archived solve run.
type Record struct {
	RunID       string        `json:"run_id" bson:"run_id"`
	CaseHash    string        `json:"case_hash" bson:"case_hash"`
	Algorithm   int           `json:"algorithm" bson:"algorithm"`
	Formulation string        `json:"formulation" bson:"formulation"`
	Backend     string        `json:"backend" bson:"backend"`
	Objective   float64       `json:"objective" bson:"objective"`
	Success     bool          `json:"success" bson:"success"`
	Status      int           `json:"status" bson:"status"`
	Iterations  int           `json:"iterations" bson:"iterations"`
	Elapsed     time.Duration `json:"elapsed" bson:"elapsed"`
	CacheHit    bool          `json:"cache_hit" bson:"cache_hit"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}

// Store is the archive contract. Implementations must be safe for
// concurrent use.
type Store interface {
	// Record archives a run. The store sets CreatedAt if it is zero.
	Record(ctx context.Context, r *Record) error

	// Get returns the record with the given run ID, or RUN_NOT_FOUND.
	Get(ctx context.Context, runID string) (*Record, error)

	// List returns up to limit records, newest first. A non-positive
	// limit returns everything.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases any underlying resources.
	Close(ctx context.Context) error
}

// =============================================================================
// In-Memory Store
// =============================================================================

// MemoryStore keeps records in process memory. It is the CLI default and
// the test double for the Mongo store.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

// NewMemoryStore creates an empty in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Record archives a run.
func (s *MemoryStore) Record(ctx context.Context, r *Record) error {
	if r.RunID == "" {
		return errors.New(errors.ErrCodeInternal, "history record has no run ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := *r
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if i, ok := s.byID[rec.RunID]; ok {
		s.records[i] = rec
		return nil
	}
	s.byID[rec.RunID] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

// Get returns the record with the given run ID.
func (s *MemoryStore) Get(ctx context.Context, runID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[runID]
	if !ok {
		return nil, errors.New(errors.ErrCodeRunNotFound, "no archived run %q", runID)
	}
	rec := s.records[i]
	return &rec, nil
}

// List returns up to limit records, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
