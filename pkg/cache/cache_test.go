package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "solve:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Round trip
	if err := c.Set(ctx, "solve:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "solve:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "payload" {
		t.Errorf("Get = (%q, %v), want (payload, true)", data, hit)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "solve:ttl", []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "solve:ttl")
	if hit {
		t.Error("expired entry should be a miss")
	}

	// Delete
	if err := c.Delete(ctx, "solve:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "solve:abc")
	if hit {
		t.Error("deleted entry should be a miss")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "solve:missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// SolveKey is deterministic
	opts := SolveKeyOpts{Algorithm: 500, Breakpoints: 10}
	if k.SolveKey("hash123", opts) != k.SolveKey("hash123", opts) {
		t.Error("SolveKey should be deterministic")
	}

	// SolveKey includes every outcome-relevant option
	base := k.SolveKey("hash123", opts)
	variants := []SolveKeyOpts{
		{Algorithm: 520, Breakpoints: 10},
		{Algorithm: 500, Breakpoints: 20},
		{Algorithm: 500, Breakpoints: 10, DC: true},
		{Algorithm: 500, Breakpoints: 10, MaxIterations: 50},
		{Algorithm: 500, Breakpoints: 10, PolyAlgorithm: 120},
		{Algorithm: 500, Breakpoints: 10, PWLAlgorithm: 220},
		{Algorithm: 500, Breakpoints: 10, ConstraintsHash: "c1"},
	}
	for _, v := range variants {
		if k.SolveKey("hash123", v) == base {
			t.Errorf("SolveKey(%+v) should differ from base", v)
		}
	}

	// Different cases produce different keys
	if k.SolveKey("hash456", opts) == base {
		t.Error("Different case hashes should produce different keys")
	}

	// CaseKey
	if k.CaseKey("a.toml") == k.CaseKey("b.toml") {
		t.Error("Different sources should produce different case keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "project:123:")

	sk := scoped.SolveKey("hash", SolveKeyOpts{Algorithm: 100})
	if !strings.HasPrefix(sk, "project:123:solve:") {
		t.Errorf("SolveKey not prefixed: %s", sk)
	}

	ck := scoped.CaseKey("case9.toml")
	if !strings.HasPrefix(ck, "project:123:case:") {
		t.Errorf("CaseKey not prefixed: %s", ck)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Non-retryable errors fail immediately
	calls := 0
	plain := errors.New("fatal")
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return plain
	})
	if !errors.Is(err, plain) {
		t.Errorf("want plain error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error should not retry, calls = %d", calls)
	}

	// Retryable errors retry until success
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Errorf("RetryWithBackoff error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("transient"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
