package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

func testSession(userID string) *model.ChatSession {
	amount := decimal.NewFromInt(50000)
	desc := "coffee"
	date := "2024-05-15"
	return &model.ChatSession{
		UserID:      userID,
		Amount:      &amount,
		Description: &desc,
		Date:        &date,
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if _, err := store.Load(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Load of absent session: got %v, want ErrNotFound", err)
	}

	want := testSession("u1")
	if err := store.Save(ctx, "u1", want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.UserID != "u1" || got.Description == nil || *got.Description != "coffee" {
		t.Errorf("loaded session does not match saved session: %+v", got)
	}
	if got.Amount == nil || !got.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("loaded amount = %v, want 50000", got.Amount)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Load after delete: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if err := store.Save(ctx, "u1", testSession("u1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first.Confirmed = true

	second, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second.Confirmed {
		t.Error("mutating a loaded session leaked back into the store")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5 * time.Minute)

	current := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	if err := store.Save(ctx, "u1", testSession("u1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Just inside the TTL.
	current = current.Add(4 * time.Minute)
	if _, err := store.Load(ctx, "u1"); err != nil {
		t.Fatalf("Load inside TTL failed: %v", err)
	}

	// Saving refreshes the inactivity timer.
	if err := store.Save(ctx, "u1", testSession("u1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	current = current.Add(4 * time.Minute)
	if _, err := store.Load(ctx, "u1"); err != nil {
		t.Fatalf("Load after refresh failed: %v", err)
	}

	// Past the TTL the session is absent.
	current = current.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Load after expiry: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_DeleteAbsent(t *testing.T) {
	store := NewMemoryStore(0)
	if err := store.Delete(context.Background(), "nobody"); err != nil {
		t.Errorf("Delete of absent session returned error: %v", err)
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	if _, err := NewStore(Config{Backend: "etcd"}, nil); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func TestNewStore_SQLiteRequiresDB(t *testing.T) {
	if _, err := NewStore(Config{Backend: "sqlite"}, nil); err == nil {
		t.Error("expected error when sqlite backend has no database handle")
	}
}
