package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"saas-action-bot/internal/credential"
	"saas-action-bot/pkg/response"
)

// Callback godoc
// @Summary     Tenant OAuth callback
// @Description Exchanges the authorization code and stores the tenant credential. state is the signed single-use value bound to the tenant.
// @Tags        OAuth
// @Produce     json
// @Param       code            query string true  "Authorization code"
// @Param       state           query string true  "Signed authorization state"
// @Param       accounts-server query string false "Regional accounts server, must be allow-listed"
// @Success     200 {object} callbackResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /oauth/callback [GET]
func (h *handler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCallbackReq(c)
	if err != nil {
		h.l.Warnf(ctx, "internal.credential.delivery.http.Callback: %v", err)
		response.BadRequest(c, err)
		return
	}

	tenantID, err := h.uc.ConsumeState(ctx, req.State)
	if err != nil {
		h.l.Warnf(ctx, "internal.credential.delivery.http.Callback: uc.ConsumeState: %v", err)
		response.BadRequest(c, credential.ErrInvalidState)
		return
	}

	cred, err := h.uc.Authorize(ctx, req.toInput(tenantID))
	if err != nil {
		h.l.Errorf(ctx, "internal.credential.delivery.http.Callback: uc.Authorize: %v", err)
		if mapped := h.mapError(err); mapped != nil {
			response.BadRequest(c, mapped)
			return
		}
		response.InternalError(c, err)
		return
	}

	resp := callbackResp{TenantID: cred.TenantID, APIBaseURL: cred.APIBaseURL}
	if !cred.Expiry.IsZero() {
		resp.ExpiresAt = cred.Expiry.UTC().Format(time.RFC3339)
	}
	response.OK(c, resp)
}
