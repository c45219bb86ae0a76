package usecase

import (
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"saas-action-bot/internal/credential"
	"saas-action-bot/internal/credential/repository"
	"saas-action-bot/internal/guard"
	"saas-action-bot/internal/metrics"
	pkgLog "saas-action-bot/pkg/log"
)

const (
	defaultRefreshSkew    = 30 * time.Second
	defaultRefreshTimeout = 10 * time.Second
	defaultAuthPath       = "/oauth/v2/auth"
	defaultTokenPath      = "/oauth/v2/token"
	defaultStateTTL       = 10 * time.Minute
)

type implUseCase struct {
	l          pkgLog.Logger
	repo       repository.Repository
	opts       credential.Options
	httpClient *http.Client
	states     guard.Deduplicator
	metrics    *metrics.Collector
	group      singleflight.Group
	now        func() time.Time
}

// New creates a credential UseCase. httpClient is used for token endpoint calls and may be nil.
// states records consumed OAuth state nonces; nil keeps them in process memory.
func New(l pkgLog.Logger, repo repository.Repository, opts credential.Options, httpClient *http.Client, states guard.Deduplicator, m *metrics.Collector) credential.UseCase {
	if opts.RefreshSkew <= 0 {
		opts.RefreshSkew = defaultRefreshSkew
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = defaultRefreshTimeout
	}
	if opts.AuthPath == "" {
		opts.AuthPath = defaultAuthPath
	}
	if opts.TokenPath == "" {
		opts.TokenPath = defaultTokenPath
	}
	if opts.StateTTL <= 0 {
		opts.StateTTL = defaultStateTTL
	}
	if opts.StateSecret == "" {
		opts.StateSecret = opts.ClientSecret
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.RefreshTimeout}
	}
	if states == nil {
		states = guard.NewMemoryDeduplicator(opts.StateTTL)
	}
	return &implUseCase{
		l:          l,
		repo:       repo,
		opts:       opts,
		httpClient: httpClient,
		states:     states,
		metrics:    m,
		now:        time.Now,
	}
}
