package gemini

import "time"

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultAPIURL  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTimeout = 30 * time.Second

	// MIMETypeJSON asks Gemini to emit a bare JSON document.
	MIMETypeJSON = "application/json"

	apiKeyHeader = "x-goog-api-key"
)
