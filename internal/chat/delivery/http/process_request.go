package http

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"saas-action-bot/internal/chat"
	"saas-action-bot/internal/model"
	"saas-action-bot/internal/webhook"
)

// processWebhookReq authenticates the request and decodes the event. ok=false means the
// request is acknowledged without being handled.
func (h *handler) processWebhookReq(c *gin.Context) (model.InboundEvent, bool, error) {
	var ev model.InboundEvent

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, chat.MaxEventBytes))
	if err != nil {
		return ev, false, fmt.Errorf("read body: %w", err)
	}

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		return ev, false, err
	}
	if err := h.security.ValidateSignature(body, c.GetHeader(webhook.SignatureHeader)); err != nil {
		return ev, false, err
	}

	if isEmptyBody(body) {
		return ev, false, nil
	}
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, false, fmt.Errorf("decode event: %w", err)
	}
	if isPing(ev) {
		return ev, false, nil
	}
	return ev, true, nil
}
