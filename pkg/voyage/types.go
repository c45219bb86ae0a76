package voyage

// InputType tells the model whether the text is a search query or an indexed document.
// Voyage prepends a different retrieval prompt for each, so both sides of a search must be tagged.
type InputType string

const (
	InputQuery    InputType = "query"
	InputDocument InputType = "document"
)

// EmbedRequest is the request body for the embeddings API.
type EmbedRequest struct {
	Input      []string  `json:"input"`
	Model      string    `json:"model"`
	InputType  InputType `json:"input_type,omitempty"`
	Truncation bool      `json:"truncation"`
}

// EmbedResponse is the response from the embeddings API.
type EmbedResponse struct {
	Object string          `json:"object"`
	Data   []EmbeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  UsageInfo       `json:"usage"`
}

// EmbeddingData contains a single embedding vector.
type EmbeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"` // position in the request's input array
}

type UsageInfo struct {
	TotalTokens int `json:"total_tokens"`
}

// ErrorResponse is the error body returned by the API. Newer deployments send "detail" instead of "error".
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
	Detail string `json:"detail"`
}

func (e ErrorResponse) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Detail
}
