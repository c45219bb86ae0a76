package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockProvider is a test implementation of the Provider interface
type mockProvider struct {
	name       string
	model      string
	shouldFail bool
	err        error
	response   *Response
	callCount  int
	lastReq    Request
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.callCount++
	m.lastReq = *req
	if m.err != nil {
		return nil, m.err
	}
	if m.shouldFail {
		return nil, errors.New("mock provider error")
	}
	return m.response, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Model() string {
	return m.model
}

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	infoMessages []string
	warnMessages []string
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Info(ctx context.Context, arg ...any) {
	if len(arg) > 0 {
		if msg, ok := arg[0].(string); ok {
			m.infoMessages = append(m.infoMessages, msg)
		}
	}
}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any) {
	m.infoMessages = append(m.infoMessages, template)
}
func (m *mockLogger) Warn(ctx context.Context, arg ...any) {
	if len(arg) > 0 {
		if msg, ok := arg[0].(string); ok {
			m.warnMessages = append(m.warnMessages, msg)
		}
	}
}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any) {
	m.warnMessages = append(m.warnMessages, template)
}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

func okProvider(name string) *mockProvider {
	return &mockProvider{
		name:     name,
		model:    name + "-model",
		response: &Response{Text: "hi from " + name, ProviderName: name, ModelName: name + "-model", Usage: &Usage{TotalTokens: 3}},
	}
}

func failingProvider(name string) *mockProvider {
	return &mockProvider{name: name, model: name + "-model", shouldFail: true}
}

func TestGenerateContent_FallbackChain(t *testing.T) {
	tests := []struct {
		name         string
		providers    []*mockProvider
		fallback     bool
		wantProvider string
		wantErr      error
		wantCalls    []int
		wantWarns    int
	}{
		{
			name:         "primary answers",
			providers:    []*mockProvider{okProvider("primary"), okProvider("secondary")},
			fallback:     true,
			wantProvider: "primary",
			wantCalls:    []int{1, 0},
		},
		{
			name:         "falls back after retries",
			providers:    []*mockProvider{failingProvider("primary"), okProvider("secondary")},
			fallback:     true,
			wantProvider: "secondary",
			wantCalls:    []int{2, 1},
			wantWarns:    1,
		},
		{
			name:      "all providers fail",
			providers: []*mockProvider{failingProvider("primary"), failingProvider("secondary")},
			fallback:  true,
			wantErr:   ErrAllProvidersFailed,
			wantCalls: []int{2, 2},
			wantWarns: 2,
		},
		{
			name:      "fallback disabled",
			providers: []*mockProvider{failingProvider("primary"), okProvider("secondary")},
			wantErr:   ErrAllProvidersFailed,
			wantCalls: []int{2, 0},
			wantWarns: 1,
		},
		{
			name:    "no providers",
			wantErr: ErrNoProvidersConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers := make([]Provider, len(tt.providers))
			for i, p := range tt.providers {
				providers[i] = p
			}
			logger := &mockLogger{}
			manager := NewManager(providers, &Config{
				FallbackEnabled: tt.fallback,
				RetryAttempts:   2,
				RetryDelay:      time.Millisecond,
			}, logger)

			resp, err := manager.GenerateContent(context.Background(), &Request{
				Messages: []Message{{Role: RoleUser, Text: "Hello"}},
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if resp != nil {
					t.Errorf("expected nil response, got %+v", resp)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if resp.ProviderName != tt.wantProvider {
					t.Errorf("expected provider %q, got %q", tt.wantProvider, resp.ProviderName)
				}
				if len(logger.infoMessages) != 1 {
					t.Errorf("expected 1 success log, got %d", len(logger.infoMessages))
				}
			}

			for i, want := range tt.wantCalls {
				if got := tt.providers[i].callCount; got != want {
					t.Errorf("provider %s: expected %d calls, got %d", tt.providers[i].name, want, got)
				}
			}
			if len(logger.warnMessages) != tt.wantWarns {
				t.Errorf("expected %d warn logs, got %d", tt.wantWarns, len(logger.warnMessages))
			}
		})
	}
}

func TestGenerateContent_InvalidRequest(t *testing.T) {
	manager := NewManager([]Provider{&mockProvider{name: "p"}}, &Config{RetryAttempts: 1}, &mockLogger{})

	if _, err := manager.GenerateContent(context.Background(), &Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got: %v", err)
	}
}

func TestGenerateJSON(t *testing.T) {
	provider := &mockProvider{
		name:  "json",
		model: "json-model",
		response: &Response{
			Text:  "```json\n{\"answer\": 42}\n```",
			Usage: &Usage{},
		},
	}
	manager := NewManager([]Provider{provider}, &Config{RetryAttempts: 1}, &mockLogger{})

	var out struct {
		Answer int `json:"answer"`
	}
	req := &Request{Messages: []Message{{Role: RoleUser, Text: "q"}}}
	if _, err := manager.GenerateJSON(context.Background(), req, &out); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if out.Answer != 42 {
		t.Errorf("Expected answer 42, got %d", out.Answer)
	}
	if !provider.lastReq.JSONMode {
		t.Error("Expected JSON mode to be requested")
	}
	if req.JSONMode {
		t.Error("Expected caller request to be left untouched")
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"bare object", `{"a":"x"}`, false},
		{"fenced", "```json\n{\"a\":\"x\"}\n```", false},
		{"plain fence", "```\n{\"a\":\"x\"}\n```", false},
		{"surrounding prose", `Sure! {"a":"x"} hope this helps`, false},
		{"not json", "no braces here", true},
		{"truncated", `{"a":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				A string `json:"a"`
			}
			err := DecodeJSON(tt.text, &out)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJSON) {
					t.Errorf("Expected ErrInvalidJSON, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if out.A != "x" {
				t.Errorf("Expected a=x, got %q", out.A)
			}
		})
	}
}
