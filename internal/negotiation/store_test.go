// ABOUTME: Tests for the session store
// ABOUTME: Covers lookup, concurrent round serialization, TTL and capacity eviction

package negotiation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T, opts StoreOptions) *Store {
	t.Helper()
	store := NewStore(NewEngine(nil), opts)
	t.Cleanup(store.Close)
	return store
}

func TestStore_CreateAdvanceGet(t *testing.T) {
	store := newTestStore(t, StoreOptions{})
	ctx := context.Background()

	resp, err := store.Create(ctx, "abc123", testFacts(500000), 0.80)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.SessionID != "abc123" {
		t.Errorf("SessionID = %q, want abc123", resp.SessionID)
	}
	if resp.OurOffer != 460000 {
		t.Errorf("opening offer = %d, want 460000", resp.OurOffer)
	}

	resp, err = store.Advance(ctx, "abc123", 300000, "")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if resp.Round != 2 {
		t.Errorf("Round = %d, want 2", resp.Round)
	}
	if resp.SessionID != "abc123" {
		t.Errorf("SessionID = %q, want abc123", resp.SessionID)
	}

	state, ok := store.Get("abc123")
	if !ok {
		t.Fatal("Get() did not find the session")
	}
	if state.RoundNum != 2 {
		t.Errorf("stored RoundNum = %d, want 2", state.RoundNum)
	}
}

func TestStore_UnknownSession(t *testing.T) {
	store := newTestStore(t, StoreOptions{})

	if _, err := store.Advance(context.Background(), "missing", 100000, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Advance() error = %v, want ErrSessionNotFound", err)
	}
	if _, ok := store.Get("missing"); ok {
		t.Error("Get() found a session that was never created")
	}
}

func TestStore_CreateOverwritesExisting(t *testing.T) {
	store := newTestStore(t, StoreOptions{})
	ctx := context.Background()

	if _, err := store.Create(ctx, "dup", testFacts(500000), 0.80); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Advance(ctx, "dup", 300000, ""); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	if _, err := store.Create(ctx, "dup", testFacts(800000), 0.50); err != nil {
		t.Fatalf("Create() overwrite error = %v", err)
	}
	state, ok := store.Get("dup")
	if !ok {
		t.Fatal("Get() did not find the overwritten session")
	}
	if state.RoundNum != 1 || state.CaseFacts.ClaimAmount != 800000 {
		t.Errorf("state = round %d claim %d, want fresh round 1 claim 800000", state.RoundNum, state.CaseFacts.ClaimAmount)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestStore_ConcurrentAdvancesSerialize(t *testing.T) {
	store := newTestStore(t, StoreOptions{})
	ctx := context.Background()

	if _, err := store.Create(ctx, "race", testFacts(1000000), 0.80); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Four concurrent counters against one session must land as exactly
	// rounds 2 through 5, one classified move each, no loss or duplication.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(offer int64) {
			defer wg.Done()
			if _, err := store.Advance(ctx, "race", offer, ""); err != nil {
				t.Errorf("Advance() error = %v", err)
			}
		}(int64(300000 + i*10000))
	}
	wg.Wait()

	state, ok := store.Get("race")
	if !ok {
		t.Fatal("session disappeared")
	}
	if state.RoundNum != 5 {
		t.Errorf("RoundNum = %d, want 5 after four rounds", state.RoundNum)
	}
	if len(state.ConcessionPattern) != 4 {
		t.Errorf("ConcessionPattern length = %d, want 4", len(state.ConcessionPattern))
	}
	if state.Final {
		t.Error("state should not be terminal before the cap is exceeded")
	}
}

func TestStore_DistinctSessionsIndependent(t *testing.T) {
	store := newTestStore(t, StoreOptions{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", n)
			if _, err := store.Create(ctx, id, testFacts(500000), 0.6); err != nil {
				t.Errorf("Create(%s) error = %v", id, err)
				return
			}
			if _, err := store.Advance(ctx, id, 250000, ""); err != nil {
				t.Errorf("Advance(%s) error = %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 8 {
		t.Errorf("Len() = %d, want 8", store.Len())
	}
	for i := 0; i < 8; i++ {
		state, ok := store.Get(fmt.Sprintf("s%d", i))
		if !ok || state.RoundNum != 2 {
			t.Errorf("session s%d: ok=%v round=%d, want round 2", i, ok, state.RoundNum)
		}
	}
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	store := newTestStore(t, StoreOptions{MaxSessions: 2})
	ctx := context.Background()

	if _, err := store.Create(ctx, "old", testFacts(500000), 0.6); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := store.Create(ctx, "mid", testFacts(500000), 0.6); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := store.Create(ctx, "new", testFacts(500000), 0.6); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	if _, ok := store.Get("old"); ok {
		t.Error("oldest session should have been evicted")
	}
	if _, ok := store.Get("new"); !ok {
		t.Error("newest session should survive")
	}
}

func TestStore_TTLEviction(t *testing.T) {
	store := newTestStore(t, StoreOptions{TTL: 20 * time.Millisecond, SweepInterval: 5 * time.Millisecond})
	ctx := context.Background()

	if _, err := store.Create(ctx, "ephemeral", testFacts(500000), 0.6); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := store.Get("ephemeral"); !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("session not evicted after TTL expiry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
