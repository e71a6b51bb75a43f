package ports

import (
	"context"
	"time"
)

// ResultCache is a best-effort idempotency layer: operation results are
// cached under the client's reference id so a retried request returns the
// original outcome instead of re-applying the mutation. Cache failures
// never fail the operation.
type ResultCache interface {
	// Get returns the cached response JSON, or nil if absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
