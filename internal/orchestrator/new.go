package orchestrator

import (
	"errors"
	"sync"
	"time"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/guard"
	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/model"
	"saas-action-bot/internal/resolver"
	"saas-action-bot/pkg/chatpush"
	pkgLog "saas-action-bot/pkg/log"
)

// Orchestrator runs one conversational turn under deduplicated ingress, a per-conversation
// lock and a response deadline. Pipelines that miss the deadline keep running and
// deliver their result later.
type Orchestrator struct {
	l        pkgLog.Logger
	conv     conversation.UseCase
	catalog  catalog.UseCase
	engine   decision.Engine
	resolver resolver.UseCase
	executor action.UseCase
	locker   guard.Locker
	push     chatpush.IChatPush
	metrics  *metrics.Collector
	opts     Options

	// inflight tracks pipelines and their background continuations.
	inflight sync.WaitGroup
	now      func() time.Time
}

func New(cfg Config) (*Orchestrator, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Conversation == nil || cfg.Catalog == nil || cfg.Engine == nil || cfg.Executor == nil || cfg.Locker == nil {
		return nil, errors.New("conversation, catalog, engine, executor and locker are required")
	}

	opts := cfg.Options
	if opts.ResponseDeadline <= 0 {
		opts.ResponseDeadline = DefaultResponseDeadline
	}
	if opts.GreetingTimeout <= 0 {
		opts.GreetingTimeout = DefaultGreetingTimeout
	}
	if opts.PushTimeout <= 0 {
		opts.PushTimeout = DefaultPushTimeout
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = model.DefaultMaxHistory
	}
	if opts.MaxClarifications <= 0 {
		opts.MaxClarifications = DefaultMaxClarifications
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.SessionWriteWait <= 0 {
		opts.SessionWriteWait = DefaultSessionWriteWait
	}
	if opts.TopK <= 0 {
		opts.TopK = catalog.DefaultTopK
	}

	return &Orchestrator{
		l:        cfg.Logger,
		conv:     cfg.Conversation,
		catalog:  cfg.Catalog,
		engine:   cfg.Engine,
		resolver: cfg.Resolver,
		executor: cfg.Executor,
		locker:   cfg.Locker,
		push:     cfg.Push,
		metrics:  cfg.Metrics,
		opts:     opts,
		now:      time.Now,
	}, nil
}
