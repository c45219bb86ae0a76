package credential

import (
	"context"

	"saas-action-bot/internal/model"
)

// UseCase manages the OAuth credentials tenants granted to this service.
type UseCase interface {
	// Get loads the stored credential as is.
	Get(ctx context.Context, tenantID string) (model.TenantCredential, error)
	// Valid returns a credential whose access token is not about to expire, refreshing it first if needed.
	Valid(ctx context.Context, tenantID string) (model.TenantCredential, error)
	// ForceRefresh refreshes regardless of expiry, e.g. after the tenant API answered 401.
	ForceRefresh(ctx context.Context, tenantID string) (model.TenantCredential, error)
	// AuthCodeURL returns the consent URL for a tenant, carrying a signed single-use state.
	AuthCodeURL(ctx context.Context, tenantID string) (string, error)
	// ConsumeState verifies a callback state and returns the tenant it was issued for.
	// A state is accepted once.
	ConsumeState(ctx context.Context, state string) (string, error)
	// Authorize exchanges an authorization code and stores the resulting credential.
	Authorize(ctx context.Context, input AuthorizeInput) (model.TenantCredential, error)
}
