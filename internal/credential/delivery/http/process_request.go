package http

import "github.com/gin-gonic/gin"

// processCallbackReq binds and validates the callback query.
func (h *handler) processCallbackReq(c *gin.Context) (callbackReq, error) {
	var req callbackReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}
