package reportcache

import (
	"context"
	"time"
)

// Kind identifies one report type. Kinds double as the final segment of the
// report cache key.
type Kind string

const (
	// KindListing is the per-owner file listing.
	KindListing Kind = "listing"

	// KindStatistics is the per-owner size and count summary.
	KindStatistics Kind = "statistics"

	// KindFormats is the per-owner format breakdown.
	KindFormats Kind = "formats"
)

// Kinds returns every report kind. Invalidation and warm-up paths iterate
// over this set.
func Kinds() []Kind {
	return []Kind{KindListing, KindStatistics, KindFormats}
}

// ItemRef identifies one item in the external collection. It carries the
// fields available from enumeration alone; size and content type require a
// detail fetch.
type ItemRef struct {
	ID          string
	OwnerID     string
	Name        string
	StoragePath string
	UploadedAt  time.Time
}

// ItemDetail is the per-item metadata needed by the reports.
type ItemDetail struct {
	SizeBytes   int64
	ContentType string
}

// ItemSource is the narrow port to the external item collection. The package
// only reads through it; mutations happen elsewhere and are signalled via the
// service's OnItemCreated/OnItemDeleted hooks.
type ItemSource interface {
	// ListItems enumerates the items scoped to ownerID.
	ListItems(ctx context.Context, ownerID string) ([]ItemRef, error)

	// ItemDetail fetches the metadata for one item.
	ItemDetail(ctx context.Context, ref ItemRef) (ItemDetail, error)
}

// ListingEntry is one row of the file listing report.
type ListingEntry struct {
	ID          string    `msgpack:"id" json:"id"`
	Name        string    `msgpack:"name" json:"name"`
	ContentType string    `msgpack:"content_type" json:"content_type"`
	SizeBytes   int64     `msgpack:"size_bytes" json:"size_bytes"`
	UploadedAt  time.Time `msgpack:"uploaded_at" json:"uploaded_at"`
}

// Listing is the file listing report. Entries preserve the enumeration order
// of the source.
type Listing struct {
	Items []ListingEntry `msgpack:"items" json:"items"`
}

// Statistics is the size and count summary report. TotalFiles counts the
// items whose detail fetch succeeded, regardless of content type.
type Statistics struct {
	TotalFiles     int   `msgpack:"total_files" json:"total_files"`
	TotalUsedBytes int64 `msgpack:"total_used_bytes" json:"total_used_bytes"`
}

// FormatBreakdown is the per-format count report. Keys are normalized format
// names resolved by FormatKey; items without a usable content type are
// skipped rather than counted under a catch-all.
type FormatBreakdown struct {
	Counts map[string]int `msgpack:"counts" json:"counts"`
}
