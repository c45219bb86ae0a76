package catalog

import (
	"context"

	"saas-action-bot/internal/model"
)

// UseCase retrieves candidate endpoints from a tenant's API catalog.
type UseCase interface {
	// Search returns up to TopK endpoints ranked by similarity, restricted to Namespace.
	Search(ctx context.Context, input SearchInput) ([]Candidate, error)
	// IndexEndpoint stores the endpoint document and its vector.
	IndexEndpoint(ctx context.Context, ep model.Endpoint) error
	// GetEndpoint loads one endpoint document.
	GetEndpoint(ctx context.Context, tenantID, endpointID string) (model.Endpoint, error)
	// ListEndpoints returns every endpoint document of a tenant.
	ListEndpoints(ctx context.Context, tenantID string) ([]model.Endpoint, error)
	// ReindexTenant drops the tenant's vectors and re-embeds every stored document.
	// It returns how many endpoints were indexed.
	ReindexTenant(ctx context.Context, tenantID string) (int, error)
}
