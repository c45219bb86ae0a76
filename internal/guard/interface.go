package guard

import "context"

// Locker serializes turn pipelines per (tenant, visitor).
type Locker interface {
	// Acquire reports whether the caller now holds the lock. It never blocks.
	Acquire(ctx context.Context, tenantID, visitorID string) bool
	// Release frees a lock held by this process. Releasing a free lock is a no-op.
	Release(ctx context.Context, tenantID, visitorID string)
}

// Deduplicator remembers request ids for a bounded time.
type Deduplicator interface {
	// Seen records id and reports whether it was already recorded within the TTL.
	Seen(ctx context.Context, id string) bool
}
