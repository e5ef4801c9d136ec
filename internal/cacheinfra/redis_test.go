package cacheinfra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store, err := NewRedisStore(client, RedisConfig{Prefix: "test", QueryTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRedisStore() failed: %v", err)
	}
	return mr, store
}

func TestRedisConfig_Validate(t *testing.T) {
	if err := DefaultRedisConfig().Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}

	cfg := RedisConfig{QueryTimeout: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero query timeout")
	}
}

func TestNewRedisStore_NilClient(t *testing.T) {
	if _, err := NewRedisStore(nil, DefaultRedisConfig()); err == nil {
		t.Fatal("expected an error for a nil client")
	}
}

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	_, store := newTestRedis(t)

	// Miss on empty cache.
	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok {
		t.Error("expected a miss on an empty cache")
	}

	if err := store.Set(ctx, "k", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !ok || string(value) != "v1" {
		t.Errorf("expected a hit with %q, got ok=%v value=%q", "v1", ok, value)
	}

	// Last write wins.
	if err := store.Set(ctx, "k", []byte("v2"), time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	value, _, _ = store.Get(ctx, "k")
	if string(value) != "v2" {
		t.Errorf("expected last write to win, got %q", value)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)

	if err := store.Set(ctx, "k", []byte("v"), 2*time.Second); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("expected a hit before expiry")
	}

	// Use miniredis FastForward to simulate time passing.
	mr.FastForward(3 * time.Second)

	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected a miss after expiry")
	}
}

func TestRedisStore_NoTTLPersists(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mr.FastForward(24 * time.Hour)

	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Error("entry without TTL must persist until invalidated")
	}
}

func TestRedisStore_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	_, store := newTestRedis(t)

	entries := []string{
		"report::alice::listing",
		"report::alice::statistics",
		"report::bob::listing",
	}
	for _, key := range entries {
		if err := store.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if err := store.DeleteByPrefix(ctx, "report::alice::"); err != nil {
		t.Fatalf("DeleteByPrefix() failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "report::alice::listing"); ok {
		t.Error("alice's listing should have been invalidated")
	}
	if _, ok, _ := store.Get(ctx, "report::bob::listing"); !ok {
		t.Error("bob's entries must be untouched")
	}
}

func TestRedisStore_InvalidateKeys(t *testing.T) {
	ctx := context.Background()
	_, store := newTestRedis(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if err := store.InvalidateKeys(ctx, []string{"a", "c", "absent"}); err != nil {
		t.Fatalf("InvalidateKeys() failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Error("key a should have been invalidated")
	}
	if _, ok, _ := store.Get(ctx, "b"); !ok {
		t.Error("key b should have survived")
	}
	if n := store.Len(); n != 1 {
		t.Errorf("expected 1 key under the prefix, got %d", n)
	}
}

func TestRedisStore_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	first, err := NewRedisStore(client, RedisConfig{Prefix: "one", QueryTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRedisStore() failed: %v", err)
	}
	second, err := NewRedisStore(client, RedisConfig{Prefix: "two", QueryTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRedisStore() failed: %v", err)
	}

	if err := first.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if _, ok, _ := second.Get(ctx, "k"); ok {
		t.Error("stores with different prefixes must not see each other's keys")
	}
}
