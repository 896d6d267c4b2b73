package history

import (
	"context"
	"testing"
	"time"

	"github.com/voltlab/gridopt/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := Record{
		RunID:       "run-1",
		CaseHash:    "abc",
		Algorithm:   500,
		Formulation: "generalized",
		Backend:     "ipm",
		Objective:   4217.5,
		Success:     true,
		Status:      1,
		Iterations:  12,
		Elapsed:     40 * time.Millisecond,
	}
	if err := s.Record(ctx, &rec); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Backend != "ipm" || got.Objective != 4217.5 || !got.Success {
		t.Errorf("Get = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("store should set CreatedAt")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for missing run")
	}
	if errors.GetCode(err) != errors.ErrCodeRunNotFound {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeRunNotFound)
	}
}

func TestMemoryStoreRecordRequiresID(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Record(context.Background(), &Record{}); err == nil {
		t.Fatal("expected error for record without run ID")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Now()
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		rec := Record{RunID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.Record(ctx, &rec); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	// Newest first
	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 3 || got[0].RunID != "run-c" || got[2].RunID != "run-a" {
		t.Errorf("List order wrong: %+v", got)
	}

	// Limit applies after sorting
	got, err = s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "run-c" {
		t.Errorf("List(2) = %+v", got)
	}
}

func TestMemoryStoreRecordReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Record(ctx, &Record{RunID: "run-1", Status: 0}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := s.Record(ctx, &Record{RunID: "run-1", Status: 1, Success: true}); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !got.Success {
		t.Error("second Record should replace the first")
	}
	all, _ := s.List(ctx, 0)
	if len(all) != 1 {
		t.Errorf("len(List) = %d, want 1", len(all))
	}
}
