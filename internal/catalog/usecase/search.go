package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/catalog/repository"
)

// Search performs namespace-isolated semantic search over the tenant's endpoints.
func (uc *implUseCase) Search(ctx context.Context, input catalog.SearchInput) ([]catalog.Candidate, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, catalog.ErrEmptyQuery
	}
	if input.Namespace == "" {
		return nil, catalog.ErrNoNamespace
	}
	if uc.vectorRepo == nil {
		uc.l.Errorf(ctx, "internal.catalog.usecase.Search: vector repository is not initialized")
		return nil, catalog.ErrSearchDisabled
	}

	topK := input.TopK
	if topK <= 0 {
		topK = catalog.DefaultTopK
	}

	results, err := uc.vectorRepo.Search(ctx, repository.SearchOptions{
		Query:    input.Text,
		TenantID: input.Namespace,
		Limit:    topK,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.catalog.usecase.Search: vector search failed: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	candidates := make([]catalog.Candidate, 0, len(results))
	for _, sr := range results {
		ep, err := uc.repo.Get(ctx, input.Namespace, sr.EndpointID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				uc.l.Warnf(ctx, "internal.catalog.usecase.Search: endpoint %s/%s has no document, removing vector", input.Namespace, sr.EndpointID)
				uc.cleanupVector(ctx, input.Namespace, sr.EndpointID)
				continue
			}
			uc.l.Warnf(ctx, "internal.catalog.usecase.Search: failed to load endpoint %s: %v", sr.EndpointID, err)
			continue
		}

		candidates = append(candidates, catalog.Candidate{
			EndpointID: sr.EndpointID,
			Score:      sr.Score,
			Endpoint:   ep,
		})
		if len(candidates) == topK {
			break
		}
	}

	uc.l.Infof(ctx, "internal.catalog.usecase.Search: tenant=%s found %d candidates (%d raw)", input.Namespace, len(candidates), len(results))
	return candidates, nil
}

// cleanupVector deletes an orphaned vector without blocking the search.
func (uc *implUseCase) cleanupVector(ctx context.Context, tenantID, endpointID string) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := uc.vectorRepo.Delete(bg, tenantID, endpointID); err != nil {
			uc.l.Errorf(bg, "internal.catalog.usecase.cleanupVector: %s/%s: %v", tenantID, endpointID, err)
		}
	}()
}
