package reportcache

import "github.com/puzpuzpuz/xsync/v3"

// Metrics is the hook the service calls as reads move through the cache.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// Hit is called when a report is served from the cache.
	Hit()

	// Miss is called when a report has to be computed from the source.
	Miss()

	// ComputeFailure is called when a report computation fails.
	ComputeFailure()

	// Invalidation is called when an owner's cached reports are cleared.
	Invalidation()
}

// NoopMetrics is the default Metrics implementation. It keeps the service
// free of nil checks for callers that do not care about instrumentation.
type NoopMetrics struct{}

func (NoopMetrics) Hit()            {}
func (NoopMetrics) Miss()           {}
func (NoopMetrics) ComputeFailure() {}
func (NoopMetrics) Invalidation()   {}

// CounterMetrics counts cache events on striped counters, so hot read paths
// do not contend on a single atomic.
type CounterMetrics struct {
	hits          *xsync.Counter
	misses        *xsync.Counter
	failures      *xsync.Counter
	invalidations *xsync.Counter
}

// NewCounterMetrics creates a CounterMetrics with all counters at zero.
func NewCounterMetrics() *CounterMetrics {
	return &CounterMetrics{
		hits:          xsync.NewCounter(),
		misses:        xsync.NewCounter(),
		failures:      xsync.NewCounter(),
		invalidations: xsync.NewCounter(),
	}
}

func (m *CounterMetrics) Hit()            { m.hits.Inc() }
func (m *CounterMetrics) Miss()           { m.misses.Inc() }
func (m *CounterMetrics) ComputeFailure() { m.failures.Inc() }
func (m *CounterMetrics) Invalidation()   { m.invalidations.Inc() }

// MetricsSnapshot is a point-in-time view of the counters.
type MetricsSnapshot struct {
	Hits            int64
	Misses          int64
	ComputeFailures int64
	Invalidations   int64
}

// Snapshot returns the current counter values. Values read while other
// goroutines are recording events are approximate, which is fine for
// monitoring.
func (m *CounterMetrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Hits:            m.hits.Value(),
		Misses:          m.misses.Value(),
		ComputeFailures: m.failures.Value(),
		Invalidations:   m.invalidations.Value(),
	}
}
