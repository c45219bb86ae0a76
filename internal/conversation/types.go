package conversation

import (
	"time"

	"saas-action-bot/internal/model"
)

// StartSessionInput is the input for StartSession.
type StartSessionInput struct {
	Key     model.ConversationKey
	Visitor model.VisitorMeta
	Params  map[string]string // visitor-supplied custom parameters
}

// Options tunes the use case.
type Options struct {
	PendingResultTTL time.Duration
	SessionTTL       time.Duration
	MaxHistory       int
}
