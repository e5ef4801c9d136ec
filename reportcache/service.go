package reportcache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-report-cache/cache"
)

// Config holds the service configuration.
type Config struct {
	// TTL is the default time-to-live for cached reports. Zero keeps entries
	// until they are explicitly invalidated.
	TTL time.Duration

	// TTLOverrides sets a per-kind TTL that takes precedence over TTL.
	TTLOverrides map[Kind]time.Duration

	// ComputeTimeout bounds the enumeration plus fan-out phase of one report
	// computation. Zero falls back to DefaultComputeTimeout.
	ComputeTimeout time.Duration

	// MaxFetches caps how many per-item detail fetches run at once.
	// Zero falls back to DefaultMaxFetches.
	MaxFetches int

	// DisableCoalescing turns off the single-flight deduplication of
	// concurrent reads for the same missing key. With coalescing off, every
	// concurrent miss recomputes independently.
	DisableCoalescing bool

	// Metrics receives cache events. Nil installs NoopMetrics.
	Metrics Metrics
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		TTL:            5 * time.Minute,
		ComputeTimeout: DefaultComputeTimeout,
		MaxFetches:     DefaultMaxFetches,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.TTL < 0 {
		return &ConfigError{Field: "TTL", Message: "must be non-negative"}
	}
	if c.ComputeTimeout < 0 {
		return &ConfigError{Field: "ComputeTimeout", Message: "must be non-negative"}
	}
	if c.MaxFetches < 0 {
		return &ConfigError{Field: "MaxFetches", Message: "must be non-negative"}
	}
	for kind, ttl := range c.TTLOverrides {
		if ttl < 0 {
			return &ConfigError{Field: "TTLOverrides[" + string(kind) + "]", Message: "must be non-negative"}
		}
	}
	return nil
}

// Service is the read-through layer: it serves reports from the store and
// falls back to the Aggregator on a miss, storing the fresh result before
// returning it. Reports returned from coalesced reads may be shared between
// callers and must not be mutated. Coalesced computations run on a context
// detached from the individual callers, so canceling one read does not fail
// the flight for the rest; each caller still observes its own cancellation.
type Service struct {
	store   cache.Store
	agg     *Aggregator
	cfg     Config
	metrics Metrics
	group   singleflight.Group
}

// NewService wires a store and an item source into a report service.
func NewService(store cache.Store, source ItemSource, cfg Config) (*Service, error) {
	if store == nil {
		return nil, &ConfigError{Field: "store", Message: "cannot be nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	agg, err := NewAggregator(source, cfg.ComputeTimeout, cfg.MaxFetches)
	if err != nil {
		return nil, err
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &Service{
		store:   store,
		agg:     agg,
		cfg:     cfg,
		metrics: metrics,
	}, nil
}

// Listing returns the file listing report for ownerID, computing and caching
// it on a miss.
func (s *Service) Listing(ctx context.Context, ownerID string) (Listing, error) {
	return getReport(ctx, s, KindListing, ownerID, s.agg.Listing)
}

// Statistics returns the size and count summary for ownerID, computing and
// caching it on a miss.
func (s *Service) Statistics(ctx context.Context, ownerID string) (Statistics, error) {
	return getReport(ctx, s, KindStatistics, ownerID, s.agg.Statistics)
}

// Formats returns the per-format breakdown for ownerID, computing and caching
// it on a miss.
func (s *Service) Formats(ctx context.Context, ownerID string) (FormatBreakdown, error) {
	return getReport(ctx, s, KindFormats, ownerID, s.agg.Formats)
}

// OnItemCreated signals that an item was created for ownerID after a
// successful mutation. Every cached report for the owner is cleared so the
// next read recomputes from the source.
func (s *Service) OnItemCreated(ctx context.Context, ownerID string) {
	s.invalidateOwner(ctx, ownerID)
}

// OnItemDeleted signals that an item was deleted for ownerID after a
// successful mutation. Every cached report for the owner is cleared so the
// next read recomputes from the source.
func (s *Service) OnItemDeleted(ctx context.Context, ownerID string) {
	s.invalidateOwner(ctx, ownerID)
}

// InvalidateOwner clears every cached report for ownerID. Like the mutation
// hooks it is fire-and-forget; clearing absent keys is a no-op.
func (s *Service) InvalidateOwner(ctx context.Context, ownerID string) {
	s.invalidateOwner(ctx, ownerID)
}

func (s *Service) invalidateOwner(ctx context.Context, ownerID string) {
	prefix := cache.OwnerPrefix(ownerID)
	if err := s.store.DeleteByPrefix(ctx, prefix); err != nil {
		// Invalidation never fails upward; the entries age out via TTL.
		logger.Warningf("invalidating reports for owner %s failed: %v", ownerID, err)
	}
	s.metrics.Invalidation()
}

// getReport is the shared read-through path, parameterized by report type.
func getReport[T any](ctx context.Context, s *Service, kind Kind, ownerID string, compute func(context.Context, string) (T, error)) (T, error) {
	key := cache.ReportKey(ownerID, string(kind))

	if !refreshRequested(ctx) {
		value, ok, err := cache.GetTyped[T](ctx, s.store, key)
		if err != nil {
			// Store trouble on the read path degrades to a miss; the entry is
			// replaced wholesale by the recompute below.
			logger.Warningf("cache read for %s failed, treating as miss: %v", key, err)
		} else if ok {
			s.metrics.Hit()
			logger.Tracef("cache hit for %s", key)
			return value, nil
		}
	}

	s.metrics.Miss()
	logger.Debugf("cache miss for %s, computing %s report for owner %s", key, kind, ownerID)

	if s.cfg.DisableCoalescing {
		return computeAndStore(ctx, s, kind, ownerID, key, compute)
	}

	// The coalesced compute runs detached from any single caller's context so
	// one caller canceling cannot fail the flight for everyone waiting on it.
	// Each caller still honors its own context while waiting; the aggregator's
	// timeout bounds the detached work.
	ch := s.group.DoChan(key, func() (any, error) {
		return computeAndStore(context.WithoutCancel(ctx), s, kind, ownerID, key, compute)
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func computeAndStore[T any](ctx context.Context, s *Service, kind Kind, ownerID, key string, compute func(context.Context, string) (T, error)) (T, error) {
	out, err := compute(ctx, ownerID)
	if err != nil {
		s.metrics.ComputeFailure()
		var zero T
		return zero, err
	}

	if err := cache.SetTyped(ctx, s.store, key, out, s.ttlFor(kind)); err != nil {
		// The caller still gets the fresh report; the next read recomputes.
		logger.Warningf("caching %s report for owner %s failed: %v", kind, ownerID, err)
	}
	return out, nil
}

func (s *Service) ttlFor(kind Kind) time.Duration {
	if ttl, ok := s.cfg.TTLOverrides[kind]; ok {
		return ttl
	}
	return s.cfg.TTL
}
