package session

import (
	"context"
	"testing"
)

func TestMemoryStoreGetOrCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s, err := store.GetOrCreate(ctx, 7)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if s.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", s.UserID)
	}

	s.Data.Subject = "Matemáticas"
	again, err := store.GetOrCreate(ctx, 7)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if again.Data.Subject != "Matemáticas" {
		t.Error("Expected second lookup to return the same session")
	}
}

func TestMemoryStoreResetYieldsFreshSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s, _ := store.GetOrCreate(ctx, 7)
	s.Record("hola")
	s.Data.Subject = "Matemáticas"
	s.Draft.Topic = "fracciones"
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fresh, err := store.Reset(ctx, 7)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if len(fresh.History) != 0 {
		t.Errorf("Expected empty history after reset, got %d entries", len(fresh.History))
	}
	if fresh.Data.Subject != "" || len(fresh.Data.Topics) != 0 || !fresh.Draft.Empty() {
		t.Errorf("Expected default state after reset, got data=%+v draft=%+v", fresh.Data, fresh.Draft)
	}

	got, _ := store.GetOrCreate(ctx, 7)
	if got.Data.Subject != "" {
		t.Error("Reset did not replace the stored session")
	}
}
