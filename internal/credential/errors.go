package credential

import "errors"

var (
	ErrNotAuthorized            = errors.New("tenant has not authorized this service")
	ErrNoRefreshToken           = errors.New("credential has no refresh token")
	ErrRefreshFailed            = errors.New("token refresh failed")
	ErrInvalidCallback          = errors.New("authorization callback requires code and tenant")
	ErrInvalidState             = errors.New("authorization state is invalid, expired or already used")
	ErrAccountsServerNotAllowed = errors.New("accounts server is not allowed")
	ErrExchangeFailed           = errors.New("authorization code exchange failed")
	ErrMissingTenantID          = errors.New("tenant id is required")
)
