package gemini

import "context"

// IGemini generates content with a single Gemini model.
// Implementations are safe for concurrent use.
type IGemini interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Model() string
}
