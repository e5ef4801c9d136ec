// Package cache provides the key-value store contract and key building used by
// the report cache.
//
// # Overview
//
// This package exports the Store interface plus the helpers that sit on top of it:
//
//   - Store: a byte-valued key-value cache with optional per-entry TTL,
//     single-key deletion, and prefix-based bulk invalidation
//   - GetTyped / SetTyped: msgpack codec helpers for storing typed values
//   - ReportKey / OwnerPrefix: the report key namespace
//
// Values are stored as serialized bytes so that every backend (in-memory,
// sturdyc, Redis) shares one contract; the typed helpers hide the codec from
// callers.
//
// # Basic Usage
//
// The default backend is the in-memory store:
//
//	store, err := cache.NewMemoryStore(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	key := cache.ReportKey("owner-123", "statistics")
//	if err := cache.SetTyped(ctx, store, key, stats, 5*time.Minute); err != nil {
//		return err
//	}
//	stats, ok, err := cache.GetTyped[Statistics](ctx, store, key)
//
// # Key Namespace
//
// Report keys have the shape "report::<owner>::<kind>". Owner and kind
// segments are sanitized so the separator cannot be forged from the outside
// and so keys stay valid for every backend; see keys.go for the rules.
// OwnerPrefix returns the prefix covering every report key for one owner,
// which is what the invalidation path hands to Store.DeleteByPrefix.
//
// # Expiry Semantics
//
// A ttl of zero (or negative) means the entry does not expire; it stays
// visible until explicitly deleted. Expired entries behave as a miss and are
// lazily dropped by the backends. Set is an atomic replace: readers observe
// either the previous value or the new one, never a partial write.
//
// # Backends
//
// Three constructors are provided:
//
//   - NewMemoryStore: mutex-guarded map with an optional cleanup goroutine.
//     Never returns user-visible errors from Get/Set/Delete.
//   - NewSturdycStore: sturdyc-backed store with sharding and capacity
//     eviction. Per-call TTLs are ignored; the client-wide TTL governs.
//   - NewRedisStore: go-redis-backed store for sharing entries across
//     processes, with per-operation query timeouts.
//
// # See Also
//
// For the read-through service and aggregation built on this contract, see
// the reportcache package. For backend internals, see internal/cacheinfra.
package cache
