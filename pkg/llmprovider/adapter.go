package llmprovider

import (
	"context"

	"saas-action-bot/pkg/deepseek"
	"saas-action-bot/pkg/gemini"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	greq := gemini.GenerateRequest{
		Contents: make([]gemini.Content, 0, len(req.Messages)),
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.System != "" {
		greq.SystemInstruction = &gemini.Content{Parts: []gemini.Part{{Text: req.System}}}
	}
	if req.JSONMode {
		greq.GenerationConfig.ResponseMIMEType = gemini.MIMETypeJSON
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		greq.Contents = append(greq.Contents, gemini.Content{Role: role, Parts: []gemini.Part{{Text: m.Text}}})
	}

	resp, err := a.client.GenerateContent(ctx, greq)
	if err != nil {
		return nil, &ProviderError{Provider: a.Name(), Err: err}
	}

	out := &Response{
		Text:         resp.Text(),
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.UsageMetadata != nil {
		out.Usage = &Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}
	if out.Text == "" {
		return nil, &ProviderError{Provider: a.Name(), Err: ErrEmptyResponse}
	}
	return out, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

// OpenAICompatAdapter adapts pkg/deepseek, which speaks the OpenAI chat
// completions protocol, so it also serves qwen and openai base URLs.
type OpenAICompatAdapter struct {
	name   string
	client deepseek.IDeepSeek
}

// NewOpenAICompatAdapter creates an adapter reported under the given name.
func NewOpenAICompatAdapter(name string, client deepseek.IDeepSeek) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{name: name, client: client}
}

// GenerateContent implements Provider interface
func (a *OpenAICompatAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	dreq := &deepseek.Request{
		Model:       a.client.Model(),
		Messages:    make([]deepseek.Message, 0, len(req.Messages)+1),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		dreq.Messages = append(dreq.Messages, deepseek.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		role := RoleUser
		if m.Role == RoleAssistant {
			role = RoleAssistant
		}
		dreq.Messages = append(dreq.Messages, deepseek.Message{Role: role, Content: m.Text})
	}
	if req.JSONMode {
		dreq.ResponseFormat = &deepseek.ResponseFormat{Type: deepseek.FormatJSONObject}
	}

	resp, err := a.client.GenerateContent(ctx, dreq)
	if err != nil {
		return nil, &ProviderError{Provider: a.name, Err: err}
	}
	if resp.Text() == "" {
		return nil, &ProviderError{Provider: a.name, Err: ErrEmptyResponse}
	}

	return &Response{
		Text:         resp.Text(),
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *OpenAICompatAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAICompatAdapter) Model() string {
	return a.client.Model()
}
