package http

import (
	"errors"
	"strings"

	"saas-action-bot/internal/credential"
)

// callbackReq carries the provider's redirect parameters. state is the signed value issued by AuthCodeURL.
type callbackReq struct {
	Code           string `form:"code"`
	State          string `form:"state"`
	AccountsServer string `form:"accounts-server"`
	Error          string `form:"error"`
}

func (r callbackReq) validate() error {
	if r.Error != "" {
		return errors.New("authorization denied: " + r.Error)
	}
	if strings.TrimSpace(r.Code) == "" || strings.TrimSpace(r.State) == "" {
		return credential.ErrInvalidCallback
	}
	return nil
}

func (r callbackReq) toInput(tenantID string) credential.AuthorizeInput {
	return credential.AuthorizeInput{
		TenantID:    tenantID,
		Code:        r.Code,
		AccountsURL: r.AccountsServer,
	}
}

type callbackResp struct {
	TenantID   string `json:"tenant_id"`
	APIBaseURL string `json:"api_base_url"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}
