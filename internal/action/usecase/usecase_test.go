package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/credential"
	"saas-action-bot/internal/model"
	pkgLog "saas-action-bot/pkg/log"
)

type fakeCreds struct {
	credential.UseCase
	cred       model.TenantCredential
	validErr   error
	refreshed  model.TenantCredential
	refreshErr error
	refreshes  atomic.Int32
}

func (f *fakeCreds) Valid(ctx context.Context, tenantID string) (model.TenantCredential, error) {
	return f.cred, f.validErr
}

func (f *fakeCreds) ForceRefresh(ctx context.Context, tenantID string) (model.TenantCredential, error) {
	f.refreshes.Add(1)
	return f.refreshed, f.refreshErr
}

func newTestUseCase(creds credential.UseCase) action.UseCase {
	return New(pkgLog.NewNop(), creds, nil, action.Options{
		Timeout:    200 * time.Millisecond,
		RetryDelay: time.Millisecond,
	}, nil)
}

var getUser = model.Endpoint{
	ID: "getUser", TenantID: "acme", Method: "GET", Path: "/users/{userId}",
	Parameters: []model.EndpointParam{
		{Name: "userId", In: model.InPath, Required: true},
		{Name: "fields", In: model.InQuery},
		{Name: "X-Org", In: model.InHeader},
	},
}

func TestExecute_RequestBuilding(t *testing.T) {
	var got *http.Request
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			json.Unmarshal(b, &gotBody)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{cred: model.TenantCredential{TenantID: "acme", AccessToken: "tok", APIBaseURL: srv.URL + "/v2/"}}
	uc := newTestUseCase(creds)

	t.Run("Read Method", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), action.ExecuteInput{
			TenantID: "acme",
			Endpoint: getUser,
			Params:   map[string]any{"userId": "u 1", "fields": "name", "X-Org": "o-9", "extra": 3.0},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, out.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, string(out.Body))

		assert.Equal(t, http.MethodGet, got.Method)
		assert.Equal(t, "/v2/users/u%201", got.URL.EscapedPath())
		assert.Equal(t, "name", got.URL.Query().Get("fields"))
		assert.Equal(t, "3", got.URL.Query().Get("extra"))
		assert.Equal(t, "o-9", got.Header.Get("X-Org"))
		assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	})

	t.Run("Write Method Defaults To Body", func(t *testing.T) {
		gotBody = nil
		ep := model.Endpoint{ID: "createOrder", Method: "POST", Path: "/orders",
			Parameters: []model.EndpointParam{{Name: "dryRun", In: model.InQuery}}}
		_, err := uc.Execute(context.Background(), action.ExecuteInput{
			TenantID: "acme",
			Endpoint: ep,
			Params:   map[string]any{"sku": "A-1", "qty": 2.0, "dryRun": true},
		})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, got.Method)
		assert.Equal(t, "true", got.URL.Query().Get("dryRun"))
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{"sku": "A-1", "qty": 2.0}, gotBody)
	})

	t.Run("Declared Accept Header Is Kept", func(t *testing.T) {
		ep := model.Endpoint{ID: "exportUsers", Method: "GET", Path: "/users/export",
			Parameters: []model.EndpointParam{{Name: "Accept", In: model.InHeader}}}
		_, err := uc.Execute(context.Background(), action.ExecuteInput{
			TenantID: "acme",
			Endpoint: ep,
			Params:   map[string]any{"Accept": "text/csv"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"text/csv"}, got.Header.Values("Accept"))
	})

	t.Run("Default Accept Header", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), action.ExecuteInput{TenantID: "acme", Endpoint: getUser, Params: map[string]any{"userId": "u-1"}})
		require.NoError(t, err)
		assert.Equal(t, "application/json", got.Header.Get("Accept"))
	})

	t.Run("Unfilled Path Parameter", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), action.ExecuteInput{TenantID: "acme", Endpoint: getUser})
		assert.ErrorIs(t, err, action.ErrInvalidRequest)
	})
}

func TestExecute_RefreshThenSucceed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"u-1"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{
		cred:      model.TenantCredential{AccessToken: "revoked", APIBaseURL: srv.URL},
		refreshed: model.TenantCredential{AccessToken: "fresh", APIBaseURL: srv.URL},
	}
	out, err := newTestUseCase(creds).Execute(context.Background(), action.ExecuteInput{
		TenantID: "acme", Endpoint: getUser, Params: map[string]any{"userId": "u-1"},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u-1"}`, string(out.Body))
	assert.Equal(t, int32(1), creds.refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())
}

func TestExecute_Failures(t *testing.T) {
	input := action.ExecuteInput{TenantID: "acme", Endpoint: getUser, Params: map[string]any{"userId": "u-1"}}

	t.Run("Not Authorized", func(t *testing.T) {
		_, err := newTestUseCase(&fakeCreds{validErr: credential.ErrNotAuthorized}).Execute(context.Background(), input)
		assert.ErrorIs(t, err, action.ErrNotAuthorized)
		assert.Equal(t, action.OutcomeAuth, action.Classify(err))
	})

	t.Run("Refresh Failure Is Authentication", func(t *testing.T) {
		_, err := newTestUseCase(&fakeCreds{validErr: credential.ErrRefreshFailed}).Execute(context.Background(), input)
		assert.ErrorIs(t, err, action.ErrAuthentication)
	})

	t.Run("Still 401 After Refresh", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		creds := &fakeCreds{
			cred:      model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL},
			refreshed: model.TenantCredential{AccessToken: "b", APIBaseURL: srv.URL},
		}
		_, err := newTestUseCase(creds).Execute(context.Background(), input)
		assert.ErrorIs(t, err, action.ErrAuthentication)
		assert.Equal(t, int32(1), creds.refreshes.Load())
	})

	t.Run("Transient 5xx Retried Once", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()
		_, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL}}).Execute(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Persistent 5xx Is Upstream", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"db"}`))
		}))
		defer srv.Close()
		_, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL}}).Execute(context.Background(), input)

		var upstream *action.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("4xx Is Not Retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		_, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL}}).Execute(context.Background(), input)
		assert.Equal(t, action.OutcomeUpstream, action.Classify(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Timeout Is Transport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		_, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL}}).Execute(context.Background(), input)
		assert.ErrorIs(t, err, action.ErrTransport)
	})

	t.Run("Timed Out Write Is Not Replayed", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
				return
			}
			w.Write([]byte(`{"id":"o-2"}`))
		}))
		defer srv.Close()
		ep := model.Endpoint{ID: "createOrder", Method: "POST", Path: "/orders"}
		_, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL}}).Execute(context.Background(), action.ExecuteInput{
			TenantID: "acme", Endpoint: ep, Params: map[string]any{"sku": "A-1"},
		})
		assert.ErrorIs(t, err, action.ErrTransport)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("Timed Out Read Is Retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
				return
			}
			w.Write([]byte(`{"id":"u-1"}`))
		}))
		defer srv.Close()
		out, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: srv.URL}}).Execute(context.Background(), input)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"u-1"}`, string(out.Body))
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("Unreachable Is Transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := newTestUseCase(&fakeCreds{cred: model.TenantCredential{AccessToken: "a", APIBaseURL: url}}).Execute(context.Background(), input)
		assert.ErrorIs(t, err, action.ErrTransport)
	})
}

func TestReplayable(t *testing.T) {
	dialErr := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
	readErr := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}}

	tests := []struct {
		name   string
		method string
		err    error
		want   bool
	}{
		{"get timeout", http.MethodGet, context.DeadlineExceeded, true},
		{"put reset", http.MethodPut, readErr, true},
		{"delete reset", http.MethodDelete, readErr, true},
		{"post refused", http.MethodPost, dialErr, true},
		{"post reset", http.MethodPost, readErr, false},
		{"post timeout", http.MethodPost, context.DeadlineExceeded, false},
		{"patch reset", http.MethodPatch, readErr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replayable(tt.method, tt.err))
		})
	}
}
