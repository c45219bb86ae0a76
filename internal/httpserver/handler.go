package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	chatHTTP "saas-action-bot/internal/chat/delivery/http"
	credentialHTTP "saas-action-bot/internal/credential/delivery/http"
)

const environmentProduction = "production"

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == environmentProduction {
		srv.l.Infof(ctx, "Request logging disabled in production")
		return
	}
	srv.gin.Use(gin.Logger())
	srv.l.Infof(ctx, "Request logging enabled (%s)", srv.environment)
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyHandler)
	srv.gin.GET("/live", srv.liveCheck)

	if srv.metricsHandler != nil {
		srv.gin.GET("/metrics", gin.WrapH(srv.metricsHandler))
	}

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	chatHTTP.RegisterRoutes(srv.gin.Group("/webhook"), srv.chatHandler)
	srv.l.Infof(ctx, "Chat webhook route registered at POST /webhook/chat")

	if srv.credentialHandler != nil {
		credentialHTTP.RegisterRoutes(srv.gin.Group("/oauth"), srv.credentialHandler)
		srv.l.Infof(ctx, "OAuth callback route registered at GET /oauth/callback")
	} else {
		srv.l.Infof(ctx, "Tenant OAuth not configured, skipping callback route")
	}
}
