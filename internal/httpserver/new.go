package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chatHTTP "saas-action-bot/internal/chat/delivery/http"
	credentialHTTP "saas-action-bot/internal/credential/delivery/http"
	"saas-action-bot/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	startedAt   time.Time

	// System
	metricsHandler http.Handler
	readyChecks    map[string]ReadyCheck

	// Domains
	chatHandler       chatHTTP.Handler
	credentialHandler credentialHTTP.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	// ReadyChecks gate /ready, keyed by dependency name.
	ReadyChecks map[string]ReadyCheck

	ChatHandler       chatHTTP.Handler
	CredentialHandler credentialHTTP.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:                 logger,
		gin:               gin.New(),
		port:              cfg.Port,
		mode:              cfg.Mode,
		environment:       cfg.Environment,
		startedAt:         time.Now(),
		metricsHandler:    cfg.MetricsHandler,
		readyChecks:       cfg.ReadyChecks,
		chatHandler:       cfg.ChatHandler,
		credentialHandler: cfg.CredentialHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.chatHandler == nil {
		return errors.New("chat handler is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() http.Handler {
	return srv.gin
}
