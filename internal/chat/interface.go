package chat

import (
	"context"

	"saas-action-bot/internal/model"
)

// Gateway answers one inbound chat event. It never fails: every problem becomes a reply.
type Gateway interface {
	HandleEvent(ctx context.Context, ev model.InboundEvent) model.Reply
}
