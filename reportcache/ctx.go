package reportcache

import "context"

type refreshContextKey struct{}

// WithRefresh marks the context so the next report read bypasses the cache
// lookup and recomputes from the source. The fresh result is still stored, so
// subsequent reads hit the cache again.
func WithRefresh(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, refreshContextKey{}, true)
}

func refreshRequested(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	refresh, ok := ctx.Value(refreshContextKey{}).(bool)
	return ok && refresh
}
