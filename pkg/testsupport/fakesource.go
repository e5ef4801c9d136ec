package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-report-cache/reportcache"
)

// FakeSource is an in-memory reportcache.ItemSource for tests. It supports
// latency and failure injection and tracks call counts so tests can verify
// caching behavior without a live collection source.
type FakeSource struct {
	mu sync.Mutex

	items   map[string][]reportcache.ItemRef
	details map[string]reportcache.ItemDetail

	listErr    error
	detailErrs map[string]error
	latency    time.Duration

	listCalls   int
	detailCalls int
}

// NewFakeSource creates an empty FakeSource.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		items:      make(map[string][]reportcache.ItemRef),
		details:    make(map[string]reportcache.ItemDetail),
		detailErrs: make(map[string]error),
	}
}

// AddItem registers an item for owner and returns its ref. The ID is
// generated; tests that need a fixed ID can use AddItemWithID.
func (f *FakeSource) AddItem(ownerID, name, contentType string, sizeBytes int64) reportcache.ItemRef {
	return f.AddItemWithID(uuid.New().String(), ownerID, name, contentType, sizeBytes)
}

// AddItemWithID registers an item with a caller-chosen ID.
func (f *FakeSource) AddItemWithID(id, ownerID, name, contentType string, sizeBytes int64) reportcache.ItemRef {
	ref := reportcache.ItemRef{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		StoragePath: ownerID + "/" + name,
		UploadedAt:  time.Now().UTC(),
	}

	f.mu.Lock()
	f.items[ownerID] = append(f.items[ownerID], ref)
	f.details[id] = reportcache.ItemDetail{SizeBytes: sizeBytes, ContentType: contentType}
	f.mu.Unlock()

	return ref
}

// RemoveItem drops the item with the given ID from owner's collection.
func (f *FakeSource) RemoveItem(ownerID, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	refs := f.items[ownerID]
	for i, ref := range refs {
		if ref.ID == id {
			f.items[ownerID] = append(refs[:i], refs[i+1:]...)
			break
		}
	}
	delete(f.details, id)
}

// FailList makes every ListItems call return err. Pass nil to clear.
func (f *FakeSource) FailList(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

// FailDetail makes the detail fetch for the given item ID return err.
// Pass nil to clear.
func (f *FakeSource) FailDetail(id string, err error) {
	f.mu.Lock()
	if err == nil {
		delete(f.detailErrs, id)
	} else {
		f.detailErrs[id] = err
	}
	f.mu.Unlock()
}

// SetLatency makes every source call sleep for d before answering, honoring
// context cancellation.
func (f *FakeSource) SetLatency(d time.Duration) {
	f.mu.Lock()
	f.latency = d
	f.mu.Unlock()
}

// ListCalls returns how many times ListItems was called.
func (f *FakeSource) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// DetailCalls returns how many times ItemDetail was called.
func (f *FakeSource) DetailCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls
}

// ListItems implements reportcache.ItemSource.
func (f *FakeSource) ListItems(ctx context.Context, ownerID string) ([]reportcache.ItemRef, error) {
	f.mu.Lock()
	f.listCalls++
	latency := f.latency
	err := f.listErr
	refs := append([]reportcache.ItemRef(nil), f.items[ownerID]...)
	f.mu.Unlock()

	if err := f.sleep(ctx, latency); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ItemDetail implements reportcache.ItemSource.
func (f *FakeSource) ItemDetail(ctx context.Context, ref reportcache.ItemRef) (reportcache.ItemDetail, error) {
	f.mu.Lock()
	f.detailCalls++
	latency := f.latency
	err, failed := f.detailErrs[ref.ID]
	detail, ok := f.details[ref.ID]
	f.mu.Unlock()

	if err := f.sleep(ctx, latency); err != nil {
		return reportcache.ItemDetail{}, err
	}
	if failed {
		return reportcache.ItemDetail{}, err
	}
	if !ok {
		return reportcache.ItemDetail{}, errItemNotFound(ref.ID)
	}
	return detail, nil
}

func (f *FakeSource) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type errItemNotFound string

func (e errItemNotFound) Error() string {
	return "item not found: " + string(e)
}
