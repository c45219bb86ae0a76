package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers POST /chat under rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("/chat", h.HandleWebhook)
}
