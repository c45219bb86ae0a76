package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/credential"
	"saas-action-bot/internal/model"
)

// Execute calls the tenant API with a valid credential. A 401 triggers one forced
// refresh and one replay; transient failures get one bounded retry.
func (uc *implUseCase) Execute(ctx context.Context, input action.ExecuteInput) (action.ExecuteOutput, error) {
	out, err := uc.execute(ctx, input)
	uc.metrics.ActionCall(string(action.Classify(err)))
	return out, err
}

func (uc *implUseCase) execute(ctx context.Context, input action.ExecuteInput) (action.ExecuteOutput, error) {
	ep := input.Endpoint
	cred, err := uc.creds.Valid(ctx, input.TenantID)
	if err != nil {
		return action.ExecuteOutput{}, uc.credentialError(ctx, input.TenantID, err)
	}

	baseURL := cred.APIBaseURL
	if baseURL == "" {
		baseURL = uc.opts.DefaultAPIBaseURL
	}
	prepared, err := prepare(baseURL, ep, input.Params)
	if err != nil {
		uc.l.Warnf(ctx, "internal.action.usecase.Execute: %s %s: %v", ep.Method, ep.Path, err)
		return action.ExecuteOutput{}, err
	}

	status, body, err := uc.doWithRetry(ctx, prepared, cred)
	if err != nil {
		return action.ExecuteOutput{}, err
	}

	if status == http.StatusUnauthorized {
		uc.l.Warnf(ctx, "internal.action.usecase.Execute: tenant %s got 401 on %s %s, refreshing", input.TenantID, ep.Method, ep.Path)
		cred, err = uc.creds.ForceRefresh(ctx, input.TenantID)
		if err != nil {
			return action.ExecuteOutput{}, uc.credentialError(ctx, input.TenantID, err)
		}
		status, body, err = uc.doWithRetry(ctx, prepared, cred)
		if err != nil {
			return action.ExecuteOutput{}, err
		}
		if status == http.StatusUnauthorized {
			uc.l.Errorf(ctx, "internal.action.usecase.Execute: tenant %s still unauthorized after refresh", input.TenantID)
			return action.ExecuteOutput{}, action.ErrAuthentication
		}
	}

	if status < 200 || status > 299 {
		uc.l.Warnf(ctx, "internal.action.usecase.Execute: %s %s returned %d: %s", ep.Method, ep.Path, status, truncate(body, 512))
		return action.ExecuteOutput{}, &action.UpstreamError{StatusCode: status, Body: body}
	}

	uc.l.Infof(ctx, "internal.action.usecase.Execute: tenant %s %s %s -> %d", input.TenantID, ep.Method, ep.Path, status)
	return action.ExecuteOutput{StatusCode: status, Body: body}, nil
}

// doWithRetry performs one attempt plus one retry on 5xx or transport failure.
// A transport failure of a non-idempotent request is retried only when the
// connection was never established.
func (uc *implUseCase) doWithRetry(ctx context.Context, p preparedRequest, cred model.TenantCredential) (int, []byte, error) {
	authorization := uc.opts.AuthScheme + " " + cred.AccessToken

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(uc.opts.RetryDelay):
			case <-ctx.Done():
				return 0, nil, fmt.Errorf("%w: %v", action.ErrTransport, ctx.Err())
			}
		}

		status, body, err := uc.do(ctx, p, authorization)
		if err != nil {
			uc.l.Warnf(ctx, "internal.action.usecase.doWithRetry: attempt %d %s %s: %v", attempt+1, p.method, p.url, err)
			lastErr = err
			if !replayable(p.method, err) {
				break
			}
			continue
		}
		if status >= 500 && attempt == 0 {
			uc.l.Warnf(ctx, "internal.action.usecase.doWithRetry: attempt 1 %s %s returned %d, retrying", p.method, p.url, status)
			continue
		}
		return status, body, nil
	}

	return 0, nil, fmt.Errorf("%w: %v", action.ErrTransport, lastErr)
}

// replayable reports whether a request that failed with err may be sent again.
func replayable(method string, err error) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (uc *implUseCase) do(ctx context.Context, p preparedRequest, authorization string) (int, []byte, error) {
	actx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	req, err := p.build(actx, authorization)
	if err != nil {
		return 0, nil, err
	}
	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, uc.opts.MaxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// credentialError maps credential failures onto the auth class.
func (uc *implUseCase) credentialError(ctx context.Context, tenantID string, err error) error {
	uc.l.Errorf(ctx, "internal.action.usecase.Execute: tenant %s credential: %v", tenantID, err)
	if errors.Is(err, credential.ErrNotAuthorized) {
		return err
	}
	return fmt.Errorf("%w: %v", action.ErrAuthentication, err)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
