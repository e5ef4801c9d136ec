package reportcache

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/loggo/v2"
	"golang.org/x/sync/errgroup"
)

var logger = loggo.GetLogger("reportcache")

const (
	// DefaultComputeTimeout bounds the enumeration plus fan-out phase of one
	// report computation.
	DefaultComputeTimeout = 30 * time.Second

	// DefaultMaxFetches caps how many per-item detail fetches run at once.
	DefaultMaxFetches = 32
)

// Aggregator computes reports for one owner from an ItemSource. It issues one
// enumeration call, fans out the per-item detail fetches concurrently, and
// reduces the surviving results once all fetches settle.
type Aggregator struct {
	source  ItemSource
	timeout time.Duration
	limit   int
}

// NewAggregator creates an Aggregator over the given source. A timeout <= 0
// falls back to DefaultComputeTimeout, a maxFetches <= 0 to DefaultMaxFetches.
func NewAggregator(source ItemSource, timeout time.Duration, maxFetches int) (*Aggregator, error) {
	if source == nil {
		return nil, &ConfigError{Field: "source", Message: "cannot be nil"}
	}
	if timeout <= 0 {
		timeout = DefaultComputeTimeout
	}
	if maxFetches <= 0 {
		maxFetches = DefaultMaxFetches
	}
	return &Aggregator{source: source, timeout: timeout, limit: maxFetches}, nil
}

// collectedItem is one fan-out slot. ok is false when the detail fetch failed
// and the item is excluded from the reduction.
type collectedItem struct {
	ref    ItemRef
	detail ItemDetail
	ok     bool
}

// collect enumerates the owner's items and fetches their detail concurrently.
// Slots keep the enumeration order, so reductions over them are deterministic
// given a deterministic source. An enumeration failure or an overall timeout
// returns a *ComputeError; a partial aggregate is never returned in that case.
func (a *Aggregator) collect(ctx context.Context, kind Kind, ownerID string) ([]collectedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	refs, err := a.source.ListItems(ctx, ownerID)
	if err != nil {
		return nil, &ComputeError{Kind: kind, Owner: ownerID, Err: fmt.Errorf("enumerate items: %w", err)}
	}

	items := make([]collectedItem, len(refs))

	var g errgroup.Group
	g.SetLimit(a.limit)
	for i, ref := range refs {
		g.Go(func() error {
			detail, err := a.source.ItemDetail(ctx, ref)
			if err != nil {
				// A deadline failure is reported once for the whole
				// computation below, not per item.
				if ctx.Err() == nil {
					logger.Warningf("excluding item %s (owner %s) from %s report: %v", ref.ID, ownerID, kind, err)
				}
				items[i] = collectedItem{ref: ref}
				return nil
			}
			items[i] = collectedItem{ref: ref, detail: detail, ok: true}
			return nil
		})
	}
	// Fetch goroutines never return errors; failures stay in their slot.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &ComputeError{Kind: kind, Owner: ownerID, Err: err}
	}
	return items, nil
}

// Listing computes the file listing report for ownerID.
func (a *Aggregator) Listing(ctx context.Context, ownerID string) (Listing, error) {
	items, err := a.collect(ctx, KindListing, ownerID)
	if err != nil {
		return Listing{}, err
	}

	var listing Listing
	for _, item := range items {
		if !item.ok {
			continue
		}
		listing.Items = append(listing.Items, ListingEntry{
			ID:          item.ref.ID,
			Name:        item.ref.Name,
			ContentType: item.detail.ContentType,
			SizeBytes:   item.detail.SizeBytes,
			UploadedAt:  item.ref.UploadedAt,
		})
	}
	return listing, nil
}

// Statistics computes the size and count summary for ownerID.
func (a *Aggregator) Statistics(ctx context.Context, ownerID string) (Statistics, error) {
	items, err := a.collect(ctx, KindStatistics, ownerID)
	if err != nil {
		return Statistics{}, err
	}

	var stats Statistics
	for _, item := range items {
		if !item.ok {
			continue
		}
		stats.TotalFiles++
		stats.TotalUsedBytes += item.detail.SizeBytes
	}
	return stats, nil
}

// Formats computes the per-format breakdown for ownerID. Items without a
// usable content type are skipped rather than aborting the computation.
func (a *Aggregator) Formats(ctx context.Context, ownerID string) (FormatBreakdown, error) {
	items, err := a.collect(ctx, KindFormats, ownerID)
	if err != nil {
		return FormatBreakdown{}, err
	}

	breakdown := FormatBreakdown{Counts: make(map[string]int)}
	for _, item := range items {
		if !item.ok {
			continue
		}
		name, ok := FormatKey(item.detail.ContentType)
		if !ok {
			logger.Debugf("item %s (owner %s) has no usable content type %q, skipping", item.ref.ID, ownerID, item.detail.ContentType)
			continue
		}
		breakdown.Counts[name]++
	}
	return breakdown, nil
}
