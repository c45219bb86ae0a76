package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
)

const maxSessions = 50_000

type implSessionCache struct {
	entries *expirable.LRU[model.ConversationKey, model.SessionEntry]
}

// New creates an in-process session cache. Entries expire ttl after their last write;
// the per-call ttl passed to Put is ignored in favour of this one.
func New(ttl time.Duration) repository.SessionCache {
	return &implSessionCache{
		entries: expirable.NewLRU[model.ConversationKey, model.SessionEntry](maxSessions, nil, ttl),
	}
}

func (c *implSessionCache) Get(_ context.Context, key model.ConversationKey) (model.SessionEntry, bool, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return model.SessionEntry{}, false, nil
	}
	return cloneEntry(entry), true, nil
}

func (c *implSessionCache) Put(_ context.Context, entry model.SessionEntry, _ time.Duration) error {
	key := model.ConversationKey{TenantID: entry.TenantID, VisitorID: entry.VisitorID}
	c.entries.Add(key, cloneEntry(entry))
	return nil
}

func cloneEntry(e model.SessionEntry) model.SessionEntry {
	params := make(map[string]string, len(e.Params))
	for k, v := range e.Params {
		params[k] = v
	}
	e.Params = params
	return e
}
