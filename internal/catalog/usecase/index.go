package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/catalog/repository"
	"saas-action-bot/internal/model"
)

// IndexEndpoint saves the endpoint document, then upserts its vector.
func (uc *implUseCase) IndexEndpoint(ctx context.Context, ep model.Endpoint) error {
	if ep.ID == "" || ep.TenantID == "" || ep.Method == "" || ep.Path == "" {
		return catalog.ErrInvalidEndpoint
	}
	ep.Method = strings.ToUpper(ep.Method)

	if err := uc.repo.Save(ctx, ep); err != nil {
		uc.l.Errorf(ctx, "internal.catalog.usecase.IndexEndpoint: save %s/%s: %v", ep.TenantID, ep.ID, err)
		return fmt.Errorf("failed to save endpoint: %w", err)
	}

	if uc.vectorRepo == nil {
		uc.l.Warnf(ctx, "internal.catalog.usecase.IndexEndpoint: vector repository is not initialized, %s/%s saved without embedding", ep.TenantID, ep.ID)
		return catalog.ErrSearchDisabled
	}
	if err := uc.vectorRepo.Upsert(ctx, ep); err != nil {
		uc.l.Errorf(ctx, "internal.catalog.usecase.IndexEndpoint: embed %s/%s: %v", ep.TenantID, ep.ID, err)
		return fmt.Errorf("failed to index endpoint: %w", err)
	}

	return nil
}

func (uc *implUseCase) GetEndpoint(ctx context.Context, tenantID, endpointID string) (model.Endpoint, error) {
	ep, err := uc.repo.Get(ctx, tenantID, endpointID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Endpoint{}, catalog.ErrEndpointNotFound
		}
		return model.Endpoint{}, err
	}
	return ep, nil
}

func (uc *implUseCase) ListEndpoints(ctx context.Context, tenantID string) ([]model.Endpoint, error) {
	return uc.repo.List(ctx, tenantID)
}

// ReindexTenant keeps going past individual embedding failures and reports the first one.
func (uc *implUseCase) ReindexTenant(ctx context.Context, tenantID string) (int, error) {
	if tenantID == "" {
		return 0, catalog.ErrNoNamespace
	}
	if uc.vectorRepo == nil {
		return 0, catalog.ErrSearchDisabled
	}

	eps, err := uc.repo.List(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to list endpoints: %w", err)
	}
	if err := uc.vectorRepo.DeleteTenant(ctx, tenantID); err != nil {
		return 0, fmt.Errorf("failed to clear tenant vectors: %w", err)
	}

	var firstErr error
	indexed := 0
	for _, ep := range eps {
		if err := uc.vectorRepo.Upsert(ctx, ep); err != nil {
			uc.l.Warnf(ctx, "internal.catalog.usecase.ReindexTenant: embed %s/%s: %v", tenantID, ep.ID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to index endpoint %s: %w", ep.ID, err)
			}
			continue
		}
		indexed++
	}

	uc.l.Infof(ctx, "internal.catalog.usecase.ReindexTenant: %s indexed %d/%d", tenantID, indexed, len(eps))
	return indexed, firstErr
}
