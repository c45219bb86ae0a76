package action

import (
	"time"

	"saas-action-bot/internal/model"
)

// ExecuteInput is the input for Execute.
type ExecuteInput struct {
	TenantID string
	Endpoint model.Endpoint
	Params   map[string]any
}

// ExecuteOutput is a successful (2xx) tenant API answer.
type ExecuteOutput struct {
	StatusCode int
	Body       []byte
}

// Options configures the executor.
type Options struct {
	Timeout           time.Duration
	RetryDelay        time.Duration
	AuthScheme        string
	DefaultAPIBaseURL string
	MaxBodyBytes      int64
}

// Outcome is the user-facing class of an execution result.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeAuth      Outcome = "auth"
	OutcomeUpstream  Outcome = "upstream"
	OutcomeTransport Outcome = "transport"
)
