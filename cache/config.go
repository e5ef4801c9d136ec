package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-report-cache/internal/cacheinfra"
)

// Config exposes the in-memory store configuration for consumers of the cache package.
type Config struct {
	// CleanupInterval sets how often the background janitor sweeps expired
	// entries. Zero disables the janitor; expired entries are then dropped
	// lazily on read.
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	internal := cacheinfra.DefaultMemoryConfig()
	return Config{CleanupInterval: internal.CleanupInterval}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryStore constructs the default in-memory store implementation using
// the provided configuration.
func NewMemoryStore(cfg Config) (Store, error) {
	return cacheinfra.NewMemoryStore(cfg.toInternal())
}

func (c Config) toInternal() cacheinfra.MemoryConfig {
	return cacheinfra.MemoryConfig{CleanupInterval: c.CleanupInterval}
}

// SturdycConfig exposes the sturdyc-backed store configuration.
type SturdycConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultSturdycConfig returns a SturdycConfig populated with sensible defaults.
func DefaultSturdycConfig() SturdycConfig {
	return convertSturdycFromInternal(cacheinfra.DefaultSturdycConfig())
}

// Validate checks whether the configuration values are valid.
func (c SturdycConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewSturdycStore constructs a sturdyc-backed store using the provided
// configuration. Per-call TTLs are ignored by this backend; entries expire
// per the client-wide TTL.
func NewSturdycStore(cfg SturdycConfig) (Store, error) {
	return cacheinfra.NewSturdycStore(cfg.toInternal())
}

func (c SturdycConfig) toInternal() cacheinfra.SturdycConfig {
	return cacheinfra.SturdycConfig{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertSturdycFromInternal(cfg cacheinfra.SturdycConfig) SturdycConfig {
	return SturdycConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

// RedisConfig exposes the Redis-backed store configuration.
type RedisConfig struct {
	// Prefix namespaces every key written by the store. Empty means no prefix.
	Prefix string

	// QueryTimeout bounds each Redis round trip. Defaults to 5 seconds.
	QueryTimeout time.Duration
}

// DefaultRedisConfig returns a RedisConfig populated with sensible defaults.
func DefaultRedisConfig() RedisConfig {
	internal := cacheinfra.DefaultRedisConfig()
	return RedisConfig{Prefix: internal.Prefix, QueryTimeout: internal.QueryTimeout}
}

// Validate checks whether the configuration values are valid.
func (c RedisConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewRedisStore constructs a Redis-backed store over the provided client.
// The caller owns the client lifecycle; Close on the store is a no-op.
func NewRedisStore(client *redis.Client, cfg RedisConfig) (Store, error) {
	return cacheinfra.NewRedisStore(client, cfg.toInternal())
}

func (c RedisConfig) toInternal() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{Prefix: c.Prefix, QueryTimeout: c.QueryTimeout}
}
