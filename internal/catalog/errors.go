package catalog

import "errors"

// Domain-specific errors for the catalog package.
var (
	ErrEmptyQuery       = errors.New("search text is empty")
	ErrNoNamespace      = errors.New("search namespace is empty")
	ErrEndpointNotFound = errors.New("endpoint not found")
	ErrInvalidEndpoint  = errors.New("endpoint requires id, tenant, method and path")
	ErrSearchDisabled   = errors.New("vector search is not configured")
)
