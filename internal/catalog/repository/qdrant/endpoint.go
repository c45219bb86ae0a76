package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"saas-action-bot/internal/catalog/repository"
	"saas-action-bot/internal/model"
	pkgLog "saas-action-bot/pkg/log"
	pkgQdrant "saas-action-bot/pkg/qdrant"
	"saas-action-bot/pkg/voyage"
)

const (
	payloadTenantID   = "tenant_id"
	payloadEndpointID = "endpoint_id"
)

// pointNamespace scopes the UUIDv5 point ids of endpoint vectors.
var pointNamespace = uuid.MustParse("5b0d7f3e-8c1a-4f7e-9a43-2f1c6b8e9d10")

type implRepository struct {
	client         *pkgQdrant.Client
	embedder       voyage.IVoyage
	collectionName string
	l              pkgLog.Logger
}

// New creates a new Qdrant endpoint vector repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, collectionName string, l pkgLog.Logger) repository.VectorRepository {
	return &implRepository{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		l:              l,
	}
}

// Upsert embeds the endpoint and stores it with its tenant in the payload.
func (r *implRepository) Upsert(ctx context.Context, ep model.Endpoint) error {
	vectors, err := r.embedder.EmbedDocuments(ctx, []string{EmbeddingText(ep)})
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	point := pkgQdrant.Point{
		ID:     PointID(ep.TenantID, ep.ID),
		Vector: vectors[0],
		Payload: map[string]interface{}{
			payloadTenantID:   ep.TenantID,
			payloadEndpointID: ep.ID,
			"method":          ep.Method,
			"path":            ep.Path,
		},
	}

	if err := r.client.UpsertPoints(ctx, r.collectionName, pkgQdrant.UpsertPointsRequest{Points: []pkgQdrant.Point{point}}); err != nil {
		r.l.Errorf(ctx, "internal.catalog.repository.qdrant.Upsert: %v", err)
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	r.l.Debugf(ctx, "internal.catalog.repository.qdrant.Upsert: indexed %s/%s", ep.TenantID, ep.ID)
	return nil
}

// Search embeds the query and searches within the tenant's namespace only.
func (r *implRepository) Search(ctx context.Context, opt repository.SearchOptions) ([]repository.SearchResult, error) {
	vector, err := r.embedder.EmbedQuery(ctx, opt.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, pkgQdrant.SearchRequest{
		Vector:      vector,
		Limit:       opt.Limit,
		WithPayload: true,
		Filter:      pkgQdrant.MatchFilter(payloadTenantID, opt.TenantID),
	})
	if err != nil {
		r.l.Errorf(ctx, "internal.catalog.repository.qdrant.Search: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]repository.SearchResult, 0, len(resp.Result))
	for _, scored := range resp.Result {
		// a point from another tenant would mean the filter was ignored
		if tenant, _ := scored.Payload[payloadTenantID].(string); tenant != opt.TenantID {
			r.l.Warnf(ctx, "internal.catalog.repository.qdrant.Search: dropping point %s of tenant %q", scored.ID, tenant)
			continue
		}
		endpointID, ok := scored.Payload[payloadEndpointID].(string)
		if !ok || endpointID == "" {
			r.l.Warnf(ctx, "internal.catalog.repository.qdrant.Search: endpoint_id missing in payload for point %s", scored.ID)
			continue
		}
		results = append(results, repository.SearchResult{EndpointID: endpointID, Score: scored.Score})
	}

	return results, nil
}

// Delete removes an endpoint vector.
func (r *implRepository) Delete(ctx context.Context, tenantID, endpointID string) error {
	if err := r.client.DeletePoints(ctx, r.collectionName, []string{PointID(tenantID, endpointID)}); err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}
	return nil
}

func (r *implRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	if err := r.client.DeleteByFilter(ctx, r.collectionName, pkgQdrant.MatchFilter(payloadTenantID, tenantID)); err != nil {
		r.l.Errorf(ctx, "internal.catalog.repository.qdrant.DeleteTenant: %v", err)
		return fmt.Errorf("failed to delete tenant points: %w", err)
	}
	return nil
}

// IndexedPayloadKeys lists the payload fields that need a keyword index for filtered search.
func IndexedPayloadKeys() []string {
	return []string{payloadTenantID}
}

// PointID is the deterministic UUIDv5 of (tenant, endpoint).
func PointID(tenantID, endpointID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(tenantID+"\x00"+endpointID)).String()
}

// EmbeddingText is "METHOD PATH summary description" with declared parameter names appended.
func EmbeddingText(ep model.Endpoint) string {
	parts := []string{strings.ToUpper(ep.Method), ep.Path}
	if ep.Summary != "" {
		parts = append(parts, ep.Summary)
	}
	if ep.Description != "" {
		parts = append(parts, ep.Description)
	}
	if len(ep.Parameters) > 0 {
		names := make([]string, 0, len(ep.Parameters))
		for _, p := range ep.Parameters {
			names = append(names, p.Name)
		}
		parts = append(parts, "params: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, " ")
}
