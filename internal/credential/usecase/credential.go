package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"saas-action-bot/internal/credential"
	"saas-action-bot/internal/credential/repository"
	"saas-action-bot/internal/model"
)

func (uc *implUseCase) Get(ctx context.Context, tenantID string) (model.TenantCredential, error) {
	if tenantID == "" {
		return model.TenantCredential{}, credential.ErrMissingTenantID
	}
	cred, err := uc.repo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.TenantCredential{}, credential.ErrNotAuthorized
		}
		return model.TenantCredential{}, fmt.Errorf("load credential: %w", err)
	}
	return cred, nil
}

// Valid returns the stored credential, refreshing it synchronously when it expires within the skew.
func (uc *implUseCase) Valid(ctx context.Context, tenantID string) (model.TenantCredential, error) {
	cred, err := uc.Get(ctx, tenantID)
	if err != nil {
		return model.TenantCredential{}, err
	}
	if !cred.ExpiresWithin(uc.now(), uc.opts.RefreshSkew) {
		return cred, nil
	}
	return uc.refresh(ctx, tenantID, false)
}

func (uc *implUseCase) ForceRefresh(ctx context.Context, tenantID string) (model.TenantCredential, error) {
	if tenantID == "" {
		return model.TenantCredential{}, credential.ErrMissingTenantID
	}
	return uc.refresh(ctx, tenantID, true)
}

// refresh coalesces concurrent refreshes of one tenant into a single token call.
func (uc *implUseCase) refresh(ctx context.Context, tenantID string, force bool) (model.TenantCredential, error) {
	v, err, shared := uc.group.Do(tenantID, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opts.RefreshTimeout)
		defer cancel()
		return uc.doRefresh(rctx, tenantID, force)
	})
	if shared {
		uc.l.Debugf(ctx, "internal.credential.usecase.refresh: joined in-flight refresh for tenant %s", tenantID)
	}
	if err != nil {
		return model.TenantCredential{}, err
	}
	return v.(model.TenantCredential), nil
}

func (uc *implUseCase) doRefresh(ctx context.Context, tenantID string, force bool) (model.TenantCredential, error) {
	// reload: a refresh that just finished may already have persisted a new token
	cred, err := uc.Get(ctx, tenantID)
	if err != nil {
		return model.TenantCredential{}, err
	}
	if !force && !cred.ExpiresWithin(uc.now(), uc.opts.RefreshSkew) {
		return cred, nil
	}
	if cred.RefreshToken == "" {
		uc.metrics.TokenRefresh("no_refresh_token")
		return model.TenantCredential{}, credential.ErrNoRefreshToken
	}

	tokenURL := cred.TokenURL
	if tokenURL == "" {
		tokenURL, _ = uc.tokenURLFor("")
	}

	// an expired token makes the source go straight to the refresh grant
	src := uc.oauthConfig(tokenURL).TokenSource(uc.withHTTPClient(ctx), &oauth2.Token{
		RefreshToken: cred.RefreshToken,
		Expiry:       time.Unix(1, 0),
	})
	tok, err := src.Token()
	if err != nil {
		uc.metrics.TokenRefresh("failure")
		uc.l.Errorf(ctx, "internal.credential.usecase.doRefresh: tenant %s: %v", tenantID, err)
		return model.TenantCredential{}, fmt.Errorf("%w: %v", credential.ErrRefreshFailed, err)
	}

	cred.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		cred.RefreshToken = tok.RefreshToken
	}
	if tok.TokenType != "" {
		cred.TokenType = tok.TokenType
	}
	cred.Expiry = tok.Expiry
	if domain := apiDomain(tok); domain != "" {
		cred.APIBaseURL = domain
	}
	cred.TokenURL = tokenURL
	cred.UpdatedAt = uc.now()

	if err := uc.repo.Upsert(ctx, cred); err != nil {
		uc.metrics.TokenRefresh("persist_failure")
		uc.l.Errorf(ctx, "internal.credential.usecase.doRefresh: persist tenant %s: %v", tenantID, err)
		return model.TenantCredential{}, fmt.Errorf("persist refreshed credential: %w", err)
	}

	uc.metrics.TokenRefresh("success")
	uc.l.Infof(ctx, "internal.credential.usecase.doRefresh: refreshed tenant %s, expires %s", tenantID, cred.Expiry.Format(time.RFC3339))
	return cred, nil
}
