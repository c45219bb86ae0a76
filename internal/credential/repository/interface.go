package repository

import (
	"context"
	"errors"

	"saas-action-bot/internal/model"
)

// ErrNotFound is returned when a tenant has no stored credential.
var ErrNotFound = errors.New("credential not found")

// Repository persists tenant credentials.
type Repository interface {
	Get(ctx context.Context, tenantID string) (model.TenantCredential, error)
	Upsert(ctx context.Context, cred model.TenantCredential) error
}
