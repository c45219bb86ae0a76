package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAllProvidersFailed indicates all providers failed to generate content
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrInvalidRequest indicates the request is malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmptyResponse indicates the provider answered without text
	ErrEmptyResponse = errors.New("empty response")

	// ErrInvalidJSON indicates JSON mode output could not be decoded
	ErrInvalidJSON = errors.New("invalid JSON output")
)

// ProviderError wraps provider-specific errors
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether another attempt against the same provider can succeed.
// Errors carrying an HTTP status are retried only for 429 and 5xx. Context errors are final.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var sc interface{ HTTPStatus() int }
	if errors.As(err, &sc) {
		code := sc.HTTPStatus()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}
