package cacheinfra

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryConfig holds the configuration for the in-memory store.
type MemoryConfig struct {
	// CleanupInterval sets how often the background janitor sweeps expired
	// entries. Zero disables the janitor and leaves expired entries to be
	// dropped lazily on read.
	CleanupInterval time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig with sensible defaults.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		CleanupInterval: time.Minute,
	}
}

// Validate checks if the configuration values are valid.
func (c MemoryConfig) Validate() error {
	if c.CleanupInterval < 0 {
		return &ConfigError{Field: "CleanupInterval", Message: "must be non-negative"}
	}
	return nil
}

// memoryEntry is one stored value. A zero expiresAt means no TTL.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && e.expiresAt.Before(now)
}

// MemoryStore is the default store backend: a mutex-guarded map with
// per-entry expiry. It never surfaces errors from its operations; the error
// returns exist only to satisfy the shared store contract.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewMemoryStore creates a memory store and, when the configured cleanup
// interval is positive, starts the janitor goroutine. Close stops it.
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		s.wg.Add(1)
		go s.run(cfg.CleanupInterval)
	}

	return s, nil
}

// Get returns the live entry for key. An expired entry behaves as a miss and
// is dropped in place.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set atomically replaces any existing entry for key. A ttl <= 0 stores the
// entry without expiry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Delete removes the entry for key. Removing an absent key is a no-op.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
	return nil
}

// InvalidateKeys removes the given keys in one call.
func (s *MemoryStore) InvalidateKeys(_ context.Context, keys []string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries currently held, including expired entries
// the janitor has not collected yet.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the janitor goroutine. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
	return nil
}

func (s *MemoryStore) run(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, entry := range s.entries {
				if entry.expired(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
