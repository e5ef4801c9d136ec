package cacheinfra

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newMemory(t *testing.T, cfg MemoryConfig) *MemoryStore {
	t.Helper()

	store, err := NewMemoryStore(cfg)
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMemoryConfig_Validate(t *testing.T) {
	if err := DefaultMemoryConfig().Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}

	cfg := MemoryConfig{CleanupInterval: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative cleanup interval")
	}
}

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	// Miss on empty store.
	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("expected a miss on an empty store")
	}

	if err := store.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if string(value) != "v1" {
		t.Errorf("expected %q, got %q", "v1", value)
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	if err := store.Set(ctx, "k", []byte("first"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(ctx, "k", []byte("second"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	value, ok, _ := store.Get(ctx, "k")
	if !ok {
		t.Fatal("expected a hit")
	}
	if string(value) != "second" {
		t.Errorf("expected last write to win, got %q", value)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	if err := store.Set(ctx, "k", []byte("v"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("expected a hit before expiry")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected a miss after TTL elapsed")
	}

	// The lazy drop on read removes the entry.
	if n := store.Len(); n != 0 {
		t.Errorf("expected 0 entries after lazy drop, got %d", n)
	}
}

func TestMemoryStore_NoTTLPersists(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Error("entry without TTL must persist until invalidated")
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected a miss after Delete")
	}
}

func TestMemoryStore_DeleteAbsentKey(t *testing.T) {
	store := newMemory(t, MemoryConfig{})

	if err := store.Delete(context.Background(), "absent"); err != nil {
		t.Errorf("deleting an absent key must be a no-op, got: %v", err)
	}
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	entries := map[string]string{
		"report::alice::listing":    "a1",
		"report::alice::statistics": "a2",
		"report::bob::listing":      "b1",
	}
	for key, value := range entries {
		if err := store.Set(ctx, key, []byte(value), 0); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if err := store.DeleteByPrefix(ctx, "report::alice::"); err != nil {
		t.Fatalf("DeleteByPrefix() failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "report::alice::listing"); ok {
		t.Error("alice's listing should have been invalidated")
	}
	if _, ok, _ := store.Get(ctx, "report::alice::statistics"); ok {
		t.Error("alice's statistics should have been invalidated")
	}
	if _, ok, _ := store.Get(ctx, "report::bob::listing"); !ok {
		t.Error("bob's entries must be untouched")
	}
}

func TestMemoryStore_InvalidateKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if err := store.InvalidateKeys(ctx, []string{"a", "c", "absent"}); err != nil {
		t.Fatalf("InvalidateKeys() failed: %v", err)
	}

	if n := store.Len(); n != 1 {
		t.Errorf("expected 1 entry to survive, got %d", n)
	}
	if _, ok, _ := store.Get(ctx, "b"); !ok {
		t.Error("key b should have survived")
	}
}

func TestMemoryStore_Janitor(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{CleanupInterval: 10 * time.Millisecond})

	if err := store.Set(ctx, "k", []byte("v"), 15*time.Millisecond); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("janitor did not collect the expired entry in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t, MemoryConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", n%4)
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, key, []byte("v"), 0)
				_, _, _ = store.Get(ctx, key)
				if j%10 == 0 {
					_ = store.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryStore_CloseIdempotent(t *testing.T) {
	store, err := NewMemoryStore(MemoryConfig{CleanupInterval: time.Millisecond})
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
}
