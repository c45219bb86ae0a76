package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resp is the JSON envelope of the gateway's operator-facing endpoints.
// The chat webhook does not use it; it answers with a bare model.Reply.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// OK sends 200 with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{
		Message: MessageSuccess,
		Data:    data,
	})
}

// BadRequest sends 400 carrying err's message.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: ValidationErrorCode,
		Message:   err.Error(),
	})
}

// InternalError sends 500 without leaking err to the caller.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// ServiceUnavailable sends 503 with data, used by readiness probes.
func ServiceUnavailable(c *gin.Context, data any) {
	c.JSON(http.StatusServiceUnavailable, Resp{
		ErrorCode: UnavailableErrorCode,
		Message:   http.StatusText(http.StatusServiceUnavailable),
		Data:      data,
	})
}
