package action

import (
	"errors"
	"fmt"

	"saas-action-bot/internal/credential"
)

var (
	ErrNotAuthorized  = credential.ErrNotAuthorized
	ErrAuthentication = errors.New("tenant API rejected the credentials")
	ErrTransport      = errors.New("tenant API unreachable")
	ErrInvalidRequest = errors.New("cannot build tenant API request")
)

// UpstreamError is a non-2xx answer from the tenant API.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tenant API returned status %d", e.StatusCode)
}

// Classify maps an Execute error to its outcome class.
func Classify(err error) Outcome {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrAuthentication), errors.Is(err, ErrNotAuthorized):
		return OutcomeAuth
	case errors.As(err, &upstream), errors.Is(err, ErrInvalidRequest):
		return OutcomeUpstream
	default:
		return OutcomeTransport
	}
}
