package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"saas-action-bot/internal/credential"
)

const stateKeyPrefix = "oauth-state:"

// AuthCodeURL returns the provider consent URL with a state bound to tenantID.
func (uc *implUseCase) AuthCodeURL(ctx context.Context, tenantID string) (string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return "", credential.ErrMissingTenantID
	}
	state, err := uc.issueState(tenantID)
	if err != nil {
		return "", err
	}
	return uc.oauthConfig("").AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// ConsumeState checks signature and expiry, then burns the nonce.
func (uc *implUseCase) ConsumeState(ctx context.Context, state string) (string, error) {
	if uc.opts.StateSecret == "" {
		return "", credential.ErrInvalidState
	}

	parts := strings.Split(state, ".")
	if len(parts) != 4 {
		return "", credential.ErrInvalidState
	}
	nonce, expRaw, tenantRaw, sig := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(sig), []byte(uc.signState(nonce+"."+expRaw+"."+tenantRaw))) {
		uc.l.Warnf(ctx, "internal.credential.usecase.ConsumeState: bad signature")
		return "", credential.ErrInvalidState
	}
	exp, err := strconv.ParseInt(expRaw, 10, 64)
	if err != nil || uc.now().Unix() > exp {
		return "", credential.ErrInvalidState
	}
	tenant, err := base64.RawURLEncoding.DecodeString(tenantRaw)
	if err != nil || len(tenant) == 0 {
		return "", credential.ErrInvalidState
	}
	if uc.states.Seen(ctx, stateKeyPrefix+nonce) {
		uc.l.Warnf(ctx, "internal.credential.usecase.ConsumeState: replayed state for tenant %s", tenant)
		return "", credential.ErrInvalidState
	}
	return string(tenant), nil
}

func (uc *implUseCase) issueState(tenantID string) (string, error) {
	if uc.opts.StateSecret == "" {
		return "", credential.ErrInvalidState
	}
	exp := uc.now().Add(uc.opts.StateTTL).Unix()
	payload := uuid.NewString() + "." + strconv.FormatInt(exp, 10) + "." + base64.RawURLEncoding.EncodeToString([]byte(tenantID))
	return payload + "." + uc.signState(payload), nil
}

func (uc *implUseCase) signState(payload string) string {
	mac := hmac.New(sha256.New, []byte(uc.opts.StateSecret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
