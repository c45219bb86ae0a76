package httpserver

import (
	"context"
	"sort"
	"time"

	"saas-action-bot/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "saas-action-bot"

	readyCheckTimeout = 2 * time.Second
)

// ReadyCheck probes one dependency. A non-nil error marks the service not ready.
type ReadyCheck func(ctx context.Context) error

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":      "healthy",
		"version":     HealthVersion,
		"service":     ServiceName,
		"environment": srv.environment,
		"uptime":      time.Since(srv.startedAt).Truncate(time.Second).String(),
	})
}

// readyHandler runs every dependency probe under a shared timeout.
// @Summary Readiness Check
// @Description Check that the conversation store and the guard backend answer
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is ready"
// @Failure 503 {object} response.Resp "A dependency is unavailable"
// @Router /ready [get]
func (srv HTTPServer) readyHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(srv.readyChecks))
	for name := range srv.readyChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := srv.readyChecks[name](ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.readyHandler: %s: %v", name, err)
			checks[name] = "down"
			ready = false
			continue
		}
		checks[name] = "up"
	}

	body := gin.H{"service": ServiceName, "checks": checks}
	if !ready {
		body["status"] = "not ready"
		response.ServiceUnavailable(c, body)
		return
	}
	body["status"] = "ready"
	response.OK(c, body)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{"status": "alive"})
}
