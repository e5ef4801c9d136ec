package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Store is the key-value cache contract shared by every backend.
// Values are opaque byte slices; callers that want typed access should go
// through GetTyped/SetTyped.
type Store interface {
	// Get returns the value stored under key. The boolean reports whether a
	// live (present and unexpired) entry was found. Expired entries behave as
	// a miss and are dropped lazily.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set atomically replaces any existing entry for key. A ttl <= 0 stores
	// the entry without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key. Removing an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every entry whose key starts with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// InvalidateKeys removes the given keys in one call.
	InvalidateKeys(ctx context.Context, keys []string) error

	// Len returns the number of entries currently held. Backends may include
	// entries that are expired but not yet collected.
	Len() int

	// Close releases backend resources. Memory stores stop their cleanup
	// goroutine; stores over caller-owned clients are a no-op.
	Close() error
}

// GetTyped retrieves the entry for key and decodes it into T.
// A decode failure is returned as an error so callers can drop the corrupt
// entry and treat the read as a miss.
func GetTyped[T any](ctx context.Context, store Store, key string) (T, bool, error) {
	var zero T

	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	var out T
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return zero, false, fmt.Errorf("cache: decode entry %q: %w", key, err)
	}
	return out, true, nil
}

// SetTyped encodes value with msgpack and stores it under key.
func SetTyped[T any](ctx context.Context, store Store, key string, value T, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode entry %q: %w", key, err)
	}
	return store.Set(ctx, key, data, ttl)
}
