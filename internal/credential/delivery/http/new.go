package http

import (
	"github.com/gin-gonic/gin"

	"saas-action-bot/internal/credential"
	"saas-action-bot/pkg/log"
)

// Handler serves the tenant authorization callback.
type Handler interface {
	Callback(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc credential.UseCase
}

// New creates a new HTTP handler for the credential domain.
func New(l log.Logger, uc credential.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
