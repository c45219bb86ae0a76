package usecase

import (
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/catalog/repository"
	pkgLog "saas-action-bot/pkg/log"
)

type implUseCase struct {
	l          pkgLog.Logger
	repo       repository.EndpointRepository
	vectorRepo repository.VectorRepository
}

// New creates a new catalog UseCase. vectorRepo may be nil when no embedding key is configured;
// Search then returns catalog.ErrSearchDisabled.
func New(l pkgLog.Logger, repo repository.EndpointRepository, vectorRepo repository.VectorRepository) catalog.UseCase {
	return &implUseCase{
		l:          l,
		repo:       repo,
		vectorRepo: vectorRepo,
	}
}
