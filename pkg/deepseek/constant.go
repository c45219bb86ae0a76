package deepseek

import "time"

const (
	// DefaultBaseURL is the default DeepSeek API endpoint
	DefaultBaseURL = "https://api.deepseek.com/v1"

	// DefaultModel is the default model to use
	DefaultModel = "deepseek-chat"
)

const (
	// FormatJSONObject is the response_format type that forces JSON output.
	FormatJSONObject = "json_object"

	defaultTimeout = 60 * time.Second
)
