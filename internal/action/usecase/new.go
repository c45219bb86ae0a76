package usecase

import (
	"net/http"
	"time"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/credential"
	"saas-action-bot/internal/metrics"
	pkgLog "saas-action-bot/pkg/log"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultRetryDelay   = 300 * time.Millisecond
	defaultAuthScheme   = "Bearer"
	defaultMaxBodyBytes = 1 << 20
)

type implUseCase struct {
	l          pkgLog.Logger
	creds      credential.UseCase
	httpClient *http.Client
	opts       action.Options
	metrics    *metrics.Collector
}

// New creates an action executor. Per-attempt timeouts come from opts.Timeout.
func New(l pkgLog.Logger, creds credential.UseCase, httpClient *http.Client, opts action.Options, m *metrics.Collector) action.UseCase {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.AuthScheme == "" {
		opts.AuthScheme = defaultAuthScheme
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &implUseCase{
		l:          l,
		creds:      creds,
		httpClient: httpClient,
		opts:       opts,
		metrics:    m,
	}
}
