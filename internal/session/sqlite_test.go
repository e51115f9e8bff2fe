package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return store
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s, err := store.GetOrCreate(ctx, 99)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	s.Data.Subject = "Ciencias Naturales"
	s.Data.Grade = "7-1"
	s.Record("séptimo, ciencias")
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetOrCreate(ctx, 99)
	if err != nil {
		t.Fatalf("GetOrCreate after save failed: %v", err)
	}
	if got.Data.Subject != "Ciencias Naturales" || got.Data.Grade != "7-1" {
		t.Errorf("Persisted session mismatch: %+v", got.Data)
	}
	if len(got.History) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(got.History))
	}
}

func TestSQLiteStoreReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s, _ := store.GetOrCreate(ctx, 99)
	s.Data.Subject = "Matemáticas"
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fresh, err := store.Reset(ctx, 99)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if fresh.Data.Subject != "" || len(fresh.History) != 0 {
		t.Errorf("Expected fresh session after reset, got %+v", fresh)
	}

	got, _ := store.GetOrCreate(ctx, 99)
	if got.Data.Subject != "" {
		t.Error("Reset did not persist")
	}
}

func TestSQLiteStoreCleanupStale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreate(ctx, 1); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	// Nothing is older than an hour yet.
	deleted, err := store.CleanupStale(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CleanupStale failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 deletions, got %d", deleted)
	}

	// A zero TTL expires everything.
	deleted, err = store.CleanupStale(ctx, -time.Second)
	if err != nil {
		t.Fatalf("CleanupStale failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deletion, got %d", deleted)
	}
}
