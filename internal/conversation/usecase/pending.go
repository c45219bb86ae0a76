package usecase

import (
	"context"
	"time"

	"saas-action-bot/internal/model"
)

// TakePendingResult returns a fresh, unconsumed pending result and marks it
// consumed. A stale result is marked consumed and never returned.
func (uc *implUseCase) TakePendingResult(ctx context.Context, key model.ConversationKey, now time.Time) (string, bool) {
	conv, err := uc.Load(ctx, key)
	if err != nil || conv.Pending == nil || conv.Pending.Consumed {
		return "", false
	}

	fresh := conv.Pending.Fresh(now, uc.opts.PendingResultTTL)
	conv.Pending.Consumed = true
	if err := uc.Save(ctx, conv); err != nil {
		uc.l.Warnf(ctx, "internal.conversation.usecase.TakePendingResult: mark consumed: %v", err)
	}
	if !fresh {
		uc.l.Infof(ctx, "internal.conversation.usecase.TakePendingResult: discarded stale pending result for %s (age %s)",
			key, now.Sub(conv.Pending.CreatedAt).Round(time.Second))
		return "", false
	}
	return conv.Pending.Text, true
}

// StorePendingResult replaces any earlier pending result.
func (uc *implUseCase) StorePendingResult(ctx context.Context, key model.ConversationKey, text string) error {
	conv, err := uc.Load(ctx, key)
	if err != nil {
		return err
	}
	conv.Pending = &model.PendingResult{Text: text, CreatedAt: uc.now()}
	return uc.Save(ctx, conv)
}

// SetReplyOverride stores text for delivery on the next turn.
func (uc *implUseCase) SetReplyOverride(ctx context.Context, key model.ConversationKey, text string) error {
	conv, err := uc.Load(ctx, key)
	if err != nil {
		return err
	}
	conv.ReplyOverride = text
	return uc.Save(ctx, conv)
}

// TakeReplyOverride returns and clears the stored reply override.
func (uc *implUseCase) TakeReplyOverride(ctx context.Context, key model.ConversationKey) (string, bool) {
	conv, err := uc.Load(ctx, key)
	if err != nil || conv.ReplyOverride == "" {
		return "", false
	}
	text := conv.ReplyOverride
	conv.ReplyOverride = ""
	if err := uc.Save(ctx, conv); err != nil {
		uc.l.Warnf(ctx, "internal.conversation.usecase.TakeReplyOverride: clear: %v", err)
	}
	return text, true
}
