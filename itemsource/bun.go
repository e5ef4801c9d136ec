package itemsource

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-report-cache/reportcache"
)

// ItemRecord is the metadata row backing one stored item.
type ItemRecord struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          string    `bun:"id,pk" json:"id"`
	OwnerID     string    `bun:"owner_id,notnull" json:"owner_id"`
	Name        string    `bun:"name" json:"name"`
	StoragePath string    `bun:"storage_path,notnull" json:"storage_path"`
	ContentType string    `bun:"content_type" json:"content_type"`
	SizeBytes   int64     `bun:"size_bytes" json:"size_bytes"`
	UploadDate  time.Time `bun:"upload_date,nullzero" json:"upload_date"`
}

// BunSource reads item metadata through a bun database handle. It implements
// reportcache.ItemSource.
type BunSource struct {
	db bun.IDB
}

var _ reportcache.ItemSource = (*BunSource)(nil)

// NewBunSource creates a BunSource over the given handle. Both *bun.DB and
// transaction handles satisfy bun.IDB.
func NewBunSource(db bun.IDB) *BunSource {
	return &BunSource{db: db}
}

// ListItems enumerates the metadata rows scoped to ownerID, newest first.
// Only the enumeration columns are selected; size and content type come from
// ItemDetail.
func (s *BunSource) ListItems(ctx context.Context, ownerID string) ([]reportcache.ItemRef, error) {
	var records []ItemRecord
	err := s.db.NewSelect().
		Model(&records).
		Column("id", "owner_id", "name", "storage_path", "upload_date").
		Where("owner_id = ?", ownerID).
		Order("upload_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("itemsource: list items for owner %q: %w", ownerID, err)
	}

	refs := make([]reportcache.ItemRef, len(records))
	for i, record := range records {
		refs[i] = refFromRecord(record)
	}
	return refs, nil
}

// ItemDetail fetches the size and content type for one item.
func (s *BunSource) ItemDetail(ctx context.Context, ref reportcache.ItemRef) (reportcache.ItemDetail, error) {
	var record ItemRecord
	err := s.db.NewSelect().
		Model(&record).
		Column("content_type", "size_bytes").
		Where("id = ?", ref.ID).
		Scan(ctx)
	if err != nil {
		return reportcache.ItemDetail{}, fmt.Errorf("itemsource: item detail for %q: %w", ref.ID, err)
	}
	return detailFromRecord(record), nil
}

func refFromRecord(record ItemRecord) reportcache.ItemRef {
	return reportcache.ItemRef{
		ID:          record.ID,
		OwnerID:     record.OwnerID,
		Name:        record.Name,
		StoragePath: record.StoragePath,
		UploadedAt:  record.UploadDate,
	}
}

func detailFromRecord(record ItemRecord) reportcache.ItemDetail {
	return reportcache.ItemDetail{
		SizeBytes:   record.SizeBytes,
		ContentType: record.ContentType,
	}
}
