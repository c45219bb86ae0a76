package usecase

import (
	"context"
	"errors"
	"fmt"

	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
)

// Load returns the stored conversation or a fresh one.
func (uc *implUseCase) Load(ctx context.Context, key model.ConversationKey) (model.Conversation, error) {
	if key.TenantID == "" || key.VisitorID == "" {
		return model.Conversation{}, conversation.ErrInvalidKey
	}

	conv, err := uc.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		conv = model.NewConversation(key)
		conv.CreatedAt = uc.now()
		return conv, nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "internal.conversation.usecase.Load: %v", err)
		return model.Conversation{}, fmt.Errorf("load conversation: %w", err)
	}
	return conv, nil
}

// Save persists conv, enforcing the history cap.
func (uc *implUseCase) Save(ctx context.Context, conv model.Conversation) error {
	if conv.Key.TenantID == "" || conv.Key.VisitorID == "" {
		return conversation.ErrInvalidKey
	}

	conv.AppendHistory(uc.opts.MaxHistory)
	now := uc.now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	if err := uc.repo.Upsert(ctx, conv); err != nil {
		uc.l.Errorf(ctx, "internal.conversation.usecase.Save: %v", err)
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// StartSession merges visitor metadata captured at session start and caches
// visitor-supplied parameters in both stores.
func (uc *implUseCase) StartSession(ctx context.Context, input conversation.StartSessionInput) (model.Conversation, error) {
	conv, err := uc.Load(ctx, input.Key)
	if err != nil {
		return model.Conversation{}, err
	}

	conv.Visitor = conv.Visitor.Merge(input.Visitor)
	for name, value := range input.Params {
		if value != "" {
			conv.SetResolvedParam(name, value)
		}
	}
	conv.ResetClarifications()

	if err := uc.Save(ctx, conv); err != nil {
		return model.Conversation{}, err
	}
	uc.putCache(ctx, conv)
	return conv, nil
}
