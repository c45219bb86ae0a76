package http

import (
	"errors"

	"saas-action-bot/internal/credential"
)

var errAuthorizationFailed = errors.New("authorization failed, please retry from the integration page")

// mapError hides exchange details from the browser.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, credential.ErrInvalidCallback):
		return credential.ErrInvalidCallback
	case errors.Is(err, credential.ErrAccountsServerNotAllowed):
		return credential.ErrAccountsServerNotAllowed
	case errors.Is(err, credential.ErrExchangeFailed):
		return errAuthorizationFailed
	default:
		return nil
	}
}
