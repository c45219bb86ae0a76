package usecase

import (
	"saas-action-bot/internal/action"
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/resolver"
	pkgLog "saas-action-bot/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	conv     conversation.UseCase
	catalog  catalog.UseCase
	engine   decision.Engine
	executor action.UseCase
	metrics  *metrics.Collector
}

// New creates a parameter auto-resolver.
func New(
	l pkgLog.Logger,
	conv conversation.UseCase,
	catalogUC catalog.UseCase,
	engine decision.Engine,
	executor action.UseCase,
	m *metrics.Collector,
) resolver.UseCase {
	return &implUseCase{
		l:        l,
		conv:     conv,
		catalog:  catalogUC,
		engine:   engine,
		executor: executor,
		metrics:  m,
	}
}
