package usecase

import (
	"time"

	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
	pkgLog "saas-action-bot/pkg/log"
)

const (
	defaultPendingResultTTL = 5 * time.Minute
	defaultSessionTTL       = 30 * time.Minute
)

type implUseCase struct {
	l     pkgLog.Logger
	repo  repository.Repository
	cache repository.SessionCache
	opts  conversation.Options
	now   func() time.Time
}

// New creates a conversation UseCase. cache may be nil.
func New(l pkgLog.Logger, repo repository.Repository, cache repository.SessionCache, opts conversation.Options) conversation.UseCase {
	if opts.PendingResultTTL <= 0 {
		opts.PendingResultTTL = defaultPendingResultTTL
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = model.DefaultMaxHistory
	}
	return &implUseCase{
		l:     l,
		repo:  repo,
		cache: cache,
		opts:  opts,
		now:   time.Now,
	}
}
