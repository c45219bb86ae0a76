package usecase

import (
	"context"
	"fmt"
	"strings"

	"saas-action-bot/internal/decision"
	"saas-action-bot/pkg/llmprovider"
)

// Greet asks the reasoning service for a one-line welcome.
func (uc *implUseCase) Greet(ctx context.Context, input decision.GreetInput) (string, error) {
	msg := "A visitor just opened the chat."
	if input.VisitorName != "" {
		msg = fmt.Sprintf("A visitor named %s just opened the chat.", input.VisitorName)
	}
	if input.Locale != "" {
		msg += fmt.Sprintf(" Reply in the language of locale %q.", input.Locale)
	}

	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		System:      systemPromptGreet,
		Messages:    []llmprovider.Message{{Role: llmprovider.RoleUser, Text: msg}},
		Temperature: 0.7,
		MaxTokens:   64,
	})
	if err != nil {
		return "", fmt.Errorf("greeting call failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", decision.ErrEmptyGreeting
	}
	return text, nil
}
