package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
	"github.com/Veraticus/penny-for-your-thoughts/internal/storage"
)

func createTestSQLiteStore(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLiteStore(db.DB(), ttl)
	t.Cleanup(store.Close)
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := createTestSQLiteStore(t, time.Minute)
	ctx := context.Background()

	amount := decimal.NewFromInt(500)
	sess := model.NewChatSession("user-1")
	sess.Amount = &amount

	if err := store.Save(ctx, "user-1", sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Amount == nil || !got.Amount.Equal(amount) {
		t.Errorf("Amount mismatch: got %v", got.Amount)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID mismatch: got %q", got.UserID)
	}
}

func TestSQLiteStoreLoadMissing(t *testing.T) {
	store := createTestSQLiteStore(t, time.Minute)

	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreExpiry(t *testing.T) {
	// A negative TTL writes rows that are already expired.
	store := createTestSQLiteStore(t, -time.Second)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", model.NewChatSession("user-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := store.Load(ctx, "user-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for expired session, got %v", err)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := createTestSQLiteStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", model.NewChatSession("user-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "user-1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent session is not an error.
	if err := store.Delete(ctx, "user-1"); err != nil {
		t.Errorf("Second delete failed: %v", err)
	}
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	store := createTestSQLiteStore(t, time.Minute)
	ctx := context.Background()

	first := model.NewChatSession("user-1")
	desc := "freelance work"
	first.Description = &desc
	if err := store.Save(ctx, "user-1", first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := model.NewChatSession("user-1")
	second.Confirmed = true
	if err := store.Save(ctx, "user-1", second); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	got, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.Confirmed {
		t.Error("Expected latest save to win")
	}
	if got.Description != nil {
		t.Errorf("Expected description cleared by overwrite, got %q", *got.Description)
	}
}
