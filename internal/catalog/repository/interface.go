package repository

import (
	"context"
	"errors"

	"saas-action-bot/internal/model"
)

// ErrNotFound is returned when an endpoint document does not exist.
var ErrNotFound = errors.New("endpoint document not found")

// EndpointRepository stores parsed endpoint documents.
type EndpointRepository interface {
	Get(ctx context.Context, tenantID, endpointID string) (model.Endpoint, error)
	Save(ctx context.Context, ep model.Endpoint) error
	List(ctx context.Context, tenantID string) ([]model.Endpoint, error)
}

// VectorRepository handles endpoint vectors (Qdrant).
type VectorRepository interface {
	Upsert(ctx context.Context, ep model.Endpoint) error
	Search(ctx context.Context, opt SearchOptions) ([]SearchResult, error)
	Delete(ctx context.Context, tenantID, endpointID string) error
	// DeleteTenant removes every vector in the tenant's namespace.
	DeleteTenant(ctx context.Context, tenantID string) error
}

// SearchOptions defines search parameters.
type SearchOptions struct {
	Query    string // Natural language query
	TenantID string // Namespace filter
	Limit    int    // Top-K results
}

// SearchResult represents a semantic search result.
type SearchResult struct {
	EndpointID string
	Score      float64
}
