package chatpush

import (
	"errors"
	"net/http"
)

// ErrMissingHandle is returned when the channel or conversation handle is empty.
var ErrMissingHandle = errors.New("chatpush: channel and conversation handle are required")

// Config holds the platform-level credentials used for proactive pushes.
type Config struct {
	APIURL       string
	ClientID     string
	ClientSecret string
	TokenURL     string
	RefreshToken string
	// BaseHTTPClient is used for both token refreshes and API calls. Optional.
	BaseHTTPClient *http.Client
}

// SendMessageRequest is the payload for the conversation messages API.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// APIError is returned for non-2xx responses from the platform.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "chatpush: platform API error " + http.StatusText(e.StatusCode) + ": " + e.Body
}
