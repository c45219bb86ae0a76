package usecase

import (
	"saas-action-bot/internal/decision"
	pkgLog "saas-action-bot/pkg/log"
)

type implUseCase struct {
	l   pkgLog.Logger
	llm decision.Generator
}

// New creates a new decision Engine backed by the reasoning service.
func New(l pkgLog.Logger, llm decision.Generator) decision.Engine {
	return &implUseCase{
		l:   l,
		llm: llm,
	}
}
