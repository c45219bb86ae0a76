package guard

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxTrackedRequests = 100_000

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker returns a process-local Locker.
func NewMemoryLocker() Locker {
	return &memoryLocker{held: make(map[string]struct{})}
}

func (l *memoryLocker) Acquire(_ context.Context, tenantID, visitorID string) bool {
	k := lockKey(tenantID, visitorID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[k]; ok {
		return false
	}
	l.held[k] = struct{}{}
	return true
}

func (l *memoryLocker) Release(_ context.Context, tenantID, visitorID string) {
	l.mu.Lock()
	delete(l.held, lockKey(tenantID, visitorID))
	l.mu.Unlock()
}

type memoryDeduplicator struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

// NewMemoryDeduplicator returns a process-local Deduplicator whose entries
// expire ttl after they were first recorded.
func NewMemoryDeduplicator(ttl time.Duration) Deduplicator {
	return &memoryDeduplicator{
		seen: expirable.NewLRU[string, struct{}](maxTrackedRequests, nil, ttl),
	}
}

func (d *memoryDeduplicator) Seen(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen.Get(id); ok {
		return true
	}
	d.seen.Add(id, struct{}{})
	return false
}

func lockKey(tenantID, visitorID string) string {
	return tenantID + ":" + visitorID
}
