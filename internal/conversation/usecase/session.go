package usecase

import (
	"context"

	"saas-action-bot/internal/model"
)

// ResolvedParam reads the session cache first and falls back to the durable
// store, refilling the cache on a durable hit.
func (uc *implUseCase) ResolvedParam(ctx context.Context, key model.ConversationKey, name string) (string, bool) {
	if uc.cache != nil {
		entry, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.l.Warnf(ctx, "internal.conversation.usecase.ResolvedParam: session cache: %v", err)
		}
		if ok {
			if v, found := entry.Params[name]; found && v != "" {
				return v, true
			}
		}
	}

	conv, err := uc.Load(ctx, key)
	if err != nil {
		return "", false
	}
	v, ok := conv.ResolvedParams[name]
	if !ok || v == "" {
		return "", false
	}
	uc.putCache(ctx, conv)
	return v, true
}

// SaveResolvedParam writes through to the durable store, then the cache.
func (uc *implUseCase) SaveResolvedParam(ctx context.Context, key model.ConversationKey, name, value string) error {
	conv, err := uc.Load(ctx, key)
	if err != nil {
		return err
	}
	conv.SetResolvedParam(name, value)
	if err := uc.Save(ctx, conv); err != nil {
		return err
	}
	uc.putCache(ctx, conv)
	return nil
}

// putCache projects conv's parameters into the session cache. Failures are logged.
func (uc *implUseCase) putCache(ctx context.Context, conv model.Conversation) {
	if uc.cache == nil {
		return
	}
	entry := model.SessionEntry{
		TenantID:  conv.Key.TenantID,
		VisitorID: conv.Key.VisitorID,
		Params:    conv.ResolvedParams,
		UpdatedAt: uc.now(),
	}
	if err := uc.cache.Put(ctx, entry, uc.opts.SessionTTL); err != nil {
		uc.l.Warnf(ctx, "internal.conversation.usecase.putCache: %v", err)
	}
}
