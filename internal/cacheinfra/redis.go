package cacheinfra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the configuration for the Redis store backend.
type RedisConfig struct {
	// Prefix namespaces every key written by the store so several caches can
	// share one Redis database. Empty means no prefix.
	Prefix string

	// QueryTimeout bounds each Redis round trip. Prevents indefinite hangs on
	// slow or unresponsive storage. Must be greater than 0.
	QueryTimeout time.Duration
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		QueryTimeout: 5 * time.Second,
	}
}

// Validate checks if the configuration values are valid.
func (c RedisConfig) Validate() error {
	if c.QueryTimeout <= 0 {
		return &ConfigError{Field: "QueryTimeout", Message: "must be greater than 0"}
	}
	return nil
}

// RedisStore is a store backend over a caller-owned go-redis client. Unlike
// the in-process backends its operations can fail; callers on the read path
// are expected to treat a failed Get as a miss.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
}

// NewRedisStore creates a Redis-backed store. The caller owns the client
// lifecycle; Close on the store is a no-op.
func NewRedisStore(client *redis.Client, cfg RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &ConfigError{Field: "client", Message: "cannot be nil"}
	}
	return &RedisStore{client: client, cfg: cfg}, nil
}

func (s *RedisStore) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.cfg.QueryTimeout)
}

func (s *RedisStore) prefixed(key string) string {
	if s.cfg.Prefix == "" {
		return key
	}
	return s.cfg.Prefix + ":" + key
}

// Get returns the live entry for key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	data, err := s.client.Get(qctx, s.prefixed(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set atomically replaces any existing entry for key. A ttl <= 0 stores the
// entry without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	return s.client.Set(qctx, s.prefixed(key), value, ttl).Err()
}

// Delete removes the entry for key. Removing an absent key is a no-op.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	return s.client.Del(qctx, s.prefixed(key)).Err()
}

// DeleteByPrefix removes every entry whose key starts with prefix, using
// SCAN so large keyspaces are walked without blocking the server.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var keys []string
	iter := s.client.Scan(qctx, 0, s.prefixed(prefix)+"*", 0).Iterator()
	for iter.Next(qctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(qctx, keys...).Err()
}

// InvalidateKeys removes the given keys in one call.
func (s *RedisStore) InvalidateKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	qctx, cancel := s.queryCtx(ctx)
	defer cancel()

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefixed(key)
	}
	return s.client.Del(qctx, prefixed...).Err()
}

// Len returns the number of keys under the store's prefix. A scan failure
// reports zero; Len is informational only.
func (s *RedisStore) Len() int {
	qctx, cancel := s.queryCtx(context.Background())
	defer cancel()

	pattern := "*"
	if s.cfg.Prefix != "" {
		pattern = s.cfg.Prefix + ":*"
	}

	count := 0
	iter := s.client.Scan(qctx, 0, pattern, 0).Iterator()
	for iter.Next(qctx) {
		count++
	}
	if iter.Err() != nil {
		return 0
	}
	return count
}

// Close is a no-op; the caller owns the redis client lifecycle.
func (s *RedisStore) Close() error {
	return nil
}
