// Package reportcache provides a read-through cache for derived per-owner
// reports over an external item collection.
//
// # Overview
//
// The package is built from three cooperating pieces:
//
//   - Aggregator: computes a report for one owner by enumerating the owner's
//     items from an ItemSource and fetching per-item detail concurrently
//   - Service: the read-through layer; serves reports from a cache.Store and
//     falls back to the Aggregator on a miss
//   - invalidation: OnItemCreated/OnItemDeleted clear every cached report for
//     the affected owner so the next read recomputes from the source
//
// Reports are derived views: a file listing, size/count statistics, or a
// per-format breakdown. They are always reconstructable from the source, so
// the cache is purely an optimization layer and never the source of truth.
//
// # Basic Usage
//
// Wire a store and an item source into a Service:
//
//	store, _ := cache.NewMemoryStore(cache.DefaultConfig())
//	svc, err := reportcache.NewService(store, source, reportcache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	stats, err := svc.Statistics(ctx, "owner-123")
//	listing, err := svc.Listing(ctx, "owner-123")
//
// After a successful mutation against the underlying collection, the calling
// layer notifies the service:
//
//	svc.OnItemCreated(ctx, "owner-123")
//
// # Failure Containment
//
// A single item's detail fetch failing is logged and the item is excluded
// from the aggregate; one bad item never fails the whole report. Enumeration
// failures and overall timeouts surface as a *ComputeError and leave the
// cache unset, so the next read retries from scratch. A failed computation is
// never written into the cache.
//
// # Concurrency
//
// Per-item detail fetches run concurrently with no ordering guarantee between
// them; the reduction step synchronizes before combining partial results.
// Concurrent reads for the same missing key are coalesced into one
// computation by default (Config.DisableCoalescing opts out).
//
// # See Also
//
// For the store contract and key namespace, see the cache package. For
// ready-made ItemSource adapters over bun and MinIO, see the itemsource
// package.
package reportcache
