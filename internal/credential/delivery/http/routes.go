package http

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the OAuth callback. The provider redirects the tenant admin's browser here.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.GET("/callback", h.Callback)
}
