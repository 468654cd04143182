package otp

import (
	"context"
	"testing"
	"time"
)

func TestNewCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(10 * time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, "student@example.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}
	entry, ok, err := store.Get(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || entry.Code != "123456" {
		t.Fatalf("expected stored code, got %q ok=%v", entry.Code, ok)
	}
	if entry.IssuedAt.IsZero() {
		t.Fatal("issue time not recorded")
	}

	if err := store.Delete(ctx, "student@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "student@example.com"); ok {
		t.Fatal("code survived delete")
	}
}

func TestMemoryStoreSupersedes(t *testing.T) {
	store := NewMemoryStore(10 * time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, "+33612345678", "111111"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "+33612345678", "222222"); err != nil {
		t.Fatalf("put: %v", err)
	}
	entry, ok, _ := store.Get(ctx, "+33612345678")
	if !ok || entry.Code != "222222" {
		t.Fatalf("expected the newer code, got %q ok=%v", entry.Code, ok)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	if err := store.Put(ctx, "student@example.com", "654321"); err != nil {
		t.Fatalf("put: %v", err)
	}

	current = current.Add(10*time.Minute - time.Second)
	if _, ok, _ := store.Get(ctx, "student@example.com"); !ok {
		t.Fatal("code expired early")
	}

	current = current.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "student@example.com"); ok {
		t.Fatal("code outlived its TTL")
	}
}
