package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saas-action-bot/internal/chat"
	"saas-action-bot/internal/model"
	pkgLog "saas-action-bot/pkg/log"
)

// HandleWebhook godoc
// @Summary     Chat platform webhook
// @Description Answers one chat event synchronously. Always responds 200; failures become replies or an empty acknowledgement.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       X-Webhook-Signature header string false "sha256=<hex HMAC of body>"
// @Param       event body model.InboundEvent true "Chat event"
// @Success     200 {object} model.Reply
// @Router      /webhook/chat [POST]
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	defer func() {
		if r := recover(); r != nil {
			h.l.Errorf(ctx, "internal.chat.delivery.http.HandleWebhook: panic: %v", r)
			c.JSON(http.StatusOK, model.EmptyReply())
		}
	}()

	ev, ok, err := h.processWebhookReq(c)
	if err != nil {
		h.l.Warnf(ctx, "internal.chat.delivery.http.HandleWebhook: %v", err)
		c.JSON(http.StatusOK, model.EmptyReply())
		return
	}
	if !ok {
		c.JSON(http.StatusOK, model.EmptyReply())
		return
	}

	traceID := ev.RequestID
	if traceID == "" {
		traceID = uuid.NewString()
	}
	ctx = pkgLog.WithTraceID(ctx, traceID)

	if ev.RequestID != "" && h.dedup.Seen(ctx, ev.RequestID) {
		h.l.Infof(ctx, "internal.chat.delivery.http.HandleWebhook: duplicate request %s dropped", ev.RequestID)
		h.metrics.DuplicateDropped()
		c.JSON(http.StatusOK, model.EmptyReply())
		return
	}

	if err := h.security.CheckRateLimit(ev.TenantID); err != nil {
		h.l.Warnf(ctx, "internal.chat.delivery.http.HandleWebhook: %v", err)
		h.metrics.Turn(ev.Handler, "rate_limited")
		c.JSON(http.StatusOK, model.TextReply(chat.MsgRateLimited))
		return
	}

	c.JSON(http.StatusOK, h.gateway.HandleEvent(ctx, ev))
}
