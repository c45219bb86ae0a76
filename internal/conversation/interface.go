package conversation

import (
	"context"
	"time"

	"saas-action-bot/internal/model"
)

// UseCase owns the durable conversation record and its session cache projection.
// Callers mutating a conversation are expected to hold the per-conversation lock.
type UseCase interface {
	// Load returns the conversation for key, or a fresh one when none exists.
	Load(ctx context.Context, key model.ConversationKey) (model.Conversation, error)
	// Save persists conv.
	Save(ctx context.Context, conv model.Conversation) error

	// StartSession captures visitor metadata and visitor-supplied parameters.
	StartSession(ctx context.Context, input StartSessionInput) (model.Conversation, error)

	// ResolvedParam reads a resolved parameter, session cache first.
	ResolvedParam(ctx context.Context, key model.ConversationKey, name string) (string, bool)
	// SaveResolvedParam writes a resolved parameter through to both stores.
	SaveResolvedParam(ctx context.Context, key model.ConversationKey, name, value string) error

	// TakePendingResult returns a fresh unconsumed pending result and marks it consumed.
	TakePendingResult(ctx context.Context, key model.ConversationKey, now time.Time) (string, bool)
	// StorePendingResult replaces any earlier pending result.
	StorePendingResult(ctx context.Context, key model.ConversationKey, text string) error

	// SetReplyOverride stores a last-resort reply for the next turn.
	SetReplyOverride(ctx context.Context, key model.ConversationKey, text string) error
	// TakeReplyOverride returns and clears the stored reply override.
	TakeReplyOverride(ctx context.Context, key model.ConversationKey) (string, bool)
}
