package guard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgLog "saas-action-bot/pkg/log"
	pkgRedis "saas-action-bot/pkg/redis"
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

type redisLocker struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	l      pkgLog.Logger

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker returns a Locker shared across instances through Redis.
// ttl is a lease: a crashed holder's lock disappears after it.
func NewRedisLocker(client *goredis.Client, prefix string, ttl time.Duration, l pkgLog.Logger) Locker {
	return &redisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		l:      l,
		tokens: make(map[string]string),
	}
}

func (r *redisLocker) Acquire(ctx context.Context, tenantID, visitorID string) bool {
	key := pkgRedis.Key(r.prefix, "lock", tenantID, visitorID)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
	if err != nil {
		r.l.Errorf(ctx, "internal.guard.redisLocker.Acquire: key=%s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}

	r.mu.Lock()
	r.tokens[key] = token
	r.mu.Unlock()
	return true
}

func (r *redisLocker) Release(ctx context.Context, tenantID, visitorID string) {
	key := pkgRedis.Key(r.prefix, "lock", tenantID, visitorID)

	r.mu.Lock()
	token, ok := r.tokens[key]
	delete(r.tokens, key)
	r.mu.Unlock()
	if !ok {
		return
	}

	n, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int64()
	if err != nil {
		r.l.Errorf(ctx, "internal.guard.redisLocker.Release: key=%s: %v", key, err)
		return
	}
	if n == 0 {
		r.l.Warnf(ctx, "internal.guard.redisLocker.Release: key=%s lease expired before release", key)
	}
}

type redisDeduplicator struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	l      pkgLog.Logger
}

// NewRedisDeduplicator returns a Deduplicator shared across instances.
// Redis errors are logged and the event is treated as new.
func NewRedisDeduplicator(client *goredis.Client, prefix string, ttl time.Duration, l pkgLog.Logger) Deduplicator {
	return &redisDeduplicator{client: client, prefix: prefix, ttl: ttl, l: l}
}

func (r *redisDeduplicator) Seen(ctx context.Context, id string) bool {
	key := pkgRedis.Key(r.prefix, "dedup", id)

	fresh, err := r.client.SetNX(ctx, key, 1, r.ttl).Result()
	if err != nil {
		r.l.Errorf(ctx, "internal.guard.redisDeduplicator.Seen: id=%s: %v", id, err)
		return false
	}
	return !fresh
}
