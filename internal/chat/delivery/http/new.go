package http

import (
	"github.com/gin-gonic/gin"

	"saas-action-bot/internal/chat"
	"saas-action-bot/internal/guard"
	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/webhook"
	"saas-action-bot/pkg/log"
)

// Handler is the chat platform webhook.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l        log.Logger
	gateway  chat.Gateway
	dedup    guard.Deduplicator
	security *webhook.SecurityValidator
	metrics  *metrics.Collector
}

// New creates the webhook handler. m may be nil.
func New(l log.Logger, gateway chat.Gateway, dedup guard.Deduplicator, security *webhook.SecurityValidator, m *metrics.Collector) Handler {
	return &handler{
		l:        l,
		gateway:  gateway,
		dedup:    dedup,
		security: security,
		metrics:  m,
	}
}
