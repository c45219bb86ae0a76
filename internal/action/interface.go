package action

import "context"

// UseCase performs authenticated calls against a tenant's API.
type UseCase interface {
	// Execute invokes one endpoint. Errors are *UpstreamError, ErrAuthentication,
	// ErrNotAuthorized, ErrTransport or ErrInvalidRequest.
	Execute(ctx context.Context, input ExecuteInput) (ExecuteOutput, error)
}
