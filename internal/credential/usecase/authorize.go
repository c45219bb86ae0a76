package usecase

import (
	"context"
	"fmt"
	"strings"

	"saas-action-bot/internal/credential"
	"saas-action-bot/internal/model"
)

// Authorize exchanges the callback code and stores the tenant's credential.
func (uc *implUseCase) Authorize(ctx context.Context, input credential.AuthorizeInput) (model.TenantCredential, error) {
	if strings.TrimSpace(input.Code) == "" || strings.TrimSpace(input.TenantID) == "" {
		return model.TenantCredential{}, credential.ErrInvalidCallback
	}

	tokenURL, err := uc.tokenURLFor(input.AccountsURL)
	if err != nil {
		uc.l.Warnf(ctx, "internal.credential.usecase.Authorize: tenant %s: accounts server %q rejected", input.TenantID, input.AccountsURL)
		return model.TenantCredential{}, err
	}
	tok, err := uc.oauthConfig(tokenURL).Exchange(uc.withHTTPClient(ctx), input.Code)
	if err != nil {
		uc.l.Errorf(ctx, "internal.credential.usecase.Authorize: tenant %s: %v", input.TenantID, err)
		return model.TenantCredential{}, fmt.Errorf("%w: %v", credential.ErrExchangeFailed, err)
	}

	now := uc.now()
	cred := model.TenantCredential{
		TenantID:     input.TenantID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		APIBaseURL:   apiDomain(tok),
		TokenURL:     tokenURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if cred.APIBaseURL == "" {
		cred.APIBaseURL = strings.TrimRight(uc.opts.DefaultAPIBaseURL, "/")
	}

	// a re-authorization without a refresh token keeps the stored one
	if cred.RefreshToken == "" {
		if existing, err := uc.repo.Get(ctx, input.TenantID); err == nil {
			cred.RefreshToken = existing.RefreshToken
			cred.CreatedAt = existing.CreatedAt
		}
	}

	if err := uc.repo.Upsert(ctx, cred); err != nil {
		return model.TenantCredential{}, fmt.Errorf("persist credential: %w", err)
	}

	uc.l.Infof(ctx, "internal.credential.usecase.Authorize: tenant %s authorized, api=%s", input.TenantID, cred.APIBaseURL)
	return cred, nil
}
