package repository

import (
	"context"
	"errors"
	"time"

	"saas-action-bot/internal/model"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("conversation not found")

// Repository is the durable conversation store.
type Repository interface {
	Get(ctx context.Context, key model.ConversationKey) (model.Conversation, error)
	Upsert(ctx context.Context, conv model.Conversation) error
}

// SessionCache is the fast, TTL-bounded projection of conversation parameters.
// It is advisory: a miss or an error falls back to the Repository.
type SessionCache interface {
	Get(ctx context.Context, key model.ConversationKey) (model.SessionEntry, bool, error)
	Put(ctx context.Context, entry model.SessionEntry, ttl time.Duration) error
}
