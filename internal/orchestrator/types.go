package orchestrator

import (
	"time"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/guard"
	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/resolver"
	"saas-action-bot/pkg/chatpush"
	pkgLog "saas-action-bot/pkg/log"
)

// Options holds the turn policy knobs.
type Options struct {
	ResponseDeadline    time.Duration
	GreetingTimeout     time.Duration
	PushTimeout         time.Duration
	MaxHistory          int
	MaxClarifications   int
	ConfidenceThreshold float64
	TopK                int

	// SessionWriteWait bounds how long a trigger's session write waits for a busy conversation.
	SessionWriteWait time.Duration
}

// Config is the dependency bag passed to New(). Push and Metrics may be nil.
type Config struct {
	Logger       pkgLog.Logger
	Conversation conversation.UseCase
	Catalog      catalog.UseCase
	Engine       decision.Engine
	Resolver     resolver.UseCase
	Executor     action.UseCase
	Locker       guard.Locker
	Push         chatpush.IChatPush
	Metrics      *metrics.Collector
	Options      Options
}
