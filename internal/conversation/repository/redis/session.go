package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
	pkgRedis "saas-action-bot/pkg/redis"
)

type implSessionCache struct {
	client *goredis.Client
	prefix string
}

// New creates a Redis-backed session cache storing one JSON value per conversation.
func New(client *goredis.Client, prefix string) repository.SessionCache {
	return &implSessionCache{client: client, prefix: prefix}
}

func (c *implSessionCache) key(k model.ConversationKey) string {
	return pkgRedis.Key(c.prefix, "session", k.TenantID, k.VisitorID)
}

func (c *implSessionCache) Get(ctx context.Context, key model.ConversationKey) (model.SessionEntry, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.SessionEntry{}, false, nil
	}
	if err != nil {
		return model.SessionEntry{}, false, fmt.Errorf("session cache get %s: %w", key, err)
	}

	var entry model.SessionEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return model.SessionEntry{}, false, fmt.Errorf("session cache decode %s: %w", key, err)
	}
	return entry, true, nil
}

func (c *implSessionCache) Put(ctx context.Context, entry model.SessionEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("session cache encode: %w", err)
	}
	key := model.ConversationKey{TenantID: entry.TenantID, VisitorID: entry.VisitorID}
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session cache put %s: %w", key, err)
	}
	return nil
}
