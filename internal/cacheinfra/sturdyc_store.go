package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// SturdycConfig holds the configuration for the sturdyc store backend.
// It encapsulates the core sturdyc options needed for cache initialization.
type SturdycConfig struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the client-wide time-to-live for cached entries. The store
	// contract's per-call ttl is ignored by this backend.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	// Default: 10 (evict 10% of entries)
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default interval.
	EvictionInterval time.Duration
}

// DefaultSturdycConfig returns a SturdycConfig with sensible defaults for
// most use cases.
func DefaultSturdycConfig() SturdycConfig {
	return SturdycConfig{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the SturdycConfig to a sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly to
// sturdyc.New() and are not included in the options.
func (c SturdycConfig) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// Returns an error if any configuration parameter is invalid.
func (c SturdycConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycStore wraps a sturdyc client behind the shared store contract.
// Compared to the memory store it adds sharding, capacity eviction, and
// stampede-friendly internals at the cost of per-entry TTL control.
//
// Version compatibility note: this implementation assumes sturdyc v1.x API.
// Monitor sturdyc version upgrades for potential option mapping changes.
type SturdycStore struct {
	client *sturdyc.Client[[]byte]
}

// NewSturdycStore creates a sturdyc-backed store. It validates the
// configuration and initializes a sturdyc client with the provided settings.
func NewSturdycStore(cfg SturdycConfig) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStore{client: client}, nil
}

// Get returns the live entry for key.
func (s *SturdycStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// Set atomically replaces any existing entry for key. The ttl parameter is
// ignored; entries expire per the client-wide TTL configured at construction.
func (s *SturdycStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.client.Set(key, value)
	return nil
}

// Delete removes the entry for key.
func (s *SturdycStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix. The
// sturdyc client has no native prefix operation, so the keys are scanned.
func (s *SturdycStore) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

// InvalidateKeys removes the given keys in one call.
func (s *SturdycStore) InvalidateKeys(_ context.Context, keys []string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

// Len returns the number of entries currently held by the client.
func (s *SturdycStore) Len() int {
	return s.client.Size()
}

// Close is a no-op; the sturdyc client has no resources to release.
func (s *SturdycStore) Close() error {
	return nil
}
