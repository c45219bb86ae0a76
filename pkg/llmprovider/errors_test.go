package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"saas-action-bot/pkg/deepseek"
	"saas-action-bot/pkg/gemini"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("connection reset"), true},
		{"canceled", fmt.Errorf("call: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
		{"unauthorized", &ProviderError{Provider: "deepseek", Err: &deepseek.APIError{StatusCode: 401}}, false},
		{"bad request", &gemini.APIError{StatusCode: 400}, false},
		{"rate limited", &ProviderError{Provider: "gemini", Err: &gemini.APIError{StatusCode: 429}}, true},
		{"unavailable", &deepseek.APIError{StatusCode: 503}, true},
		{"blocked prompt", &ProviderError{Provider: "gemini", Err: &gemini.BlockedError{Reason: "SAFETY"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGenerateContent_PermanentErrorSkipsRetry(t *testing.T) {
	primary := &mockProvider{
		name:  "primary",
		model: "primary-model",
		err:   &ProviderError{Provider: "primary", Err: &deepseek.APIError{StatusCode: 401, Message: "bad key"}},
	}
	secondary := &mockProvider{
		name:     "secondary",
		model:    "secondary-model",
		response: &Response{Text: "ok", ProviderName: "secondary", Usage: &Usage{}},
	}

	manager := NewManager([]Provider{primary, secondary}, &Config{
		FallbackEnabled: true,
		RetryAttempts:   3,
		RetryDelay:      time.Millisecond,
	}, &mockLogger{})

	resp, err := manager.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Text: "Hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ProviderName != "secondary" {
		t.Errorf("expected fallback to secondary, got %q", resp.ProviderName)
	}
	if primary.callCount != 1 {
		t.Errorf("expected a single attempt on 401, got %d", primary.callCount)
	}
}

func TestGenerateContent_TransientErrorIsRetried(t *testing.T) {
	primary := &mockProvider{
		name:  "primary",
		model: "primary-model",
		err:   &ProviderError{Provider: "primary", Err: &gemini.APIError{StatusCode: 503}},
	}

	manager := NewManager([]Provider{primary}, &Config{
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, &mockLogger{})

	_, err := manager.GenerateContent(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Text: "Hello"}},
	})
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
	if primary.callCount != 3 {
		t.Errorf("expected 3 attempts on 503, got %d", primary.callCount)
	}
}
