package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-action-bot/pkg/response"
)

func record(t *testing.T, fn func(c *gin.Context)) (int, response.Resp) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp response.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestOK(t *testing.T) {
	code, resp := record(t, func(c *gin.Context) { response.OK(c, gin.H{"foo": "bar"}) })

	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, resp.ErrorCode)
	assert.Equal(t, response.MessageSuccess, resp.Message)
	assert.Equal(t, map[string]any{"foo": "bar"}, resp.Data)
}

func TestBadRequest(t *testing.T) {
	code, resp := record(t, func(c *gin.Context) { response.BadRequest(c, errors.New("missing code")) })

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.ValidationErrorCode, resp.ErrorCode)
	assert.Equal(t, "missing code", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestInternalError_HidesCause(t *testing.T) {
	code, resp := record(t, func(c *gin.Context) { response.InternalError(c, errors.New("db password wrong")) })

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, response.DefaultErrorMessage, resp.Message)
	assert.NotContains(t, resp.Message, "password")
}

func TestServiceUnavailable(t *testing.T) {
	code, resp := record(t, func(c *gin.Context) { response.ServiceUnavailable(c, gin.H{"status": "not ready"}) })

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, response.UnavailableErrorCode, resp.ErrorCode)
	assert.Equal(t, map[string]any{"status": "not ready"}, resp.Data)
}
