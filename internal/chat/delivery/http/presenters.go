package http

import (
	"bytes"

	"saas-action-bot/internal/model"
)

// isPing reports whether the event is a platform validation request.
func isPing(ev model.InboundEvent) bool {
	if ev.Handler == model.HandlerPing {
		return true
	}
	return ev.Handler == "" && ev.RequestID == ""
}

func isEmptyBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}"))
}
