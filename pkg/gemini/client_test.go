package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"saas-action-bot/pkg/gemini"
)

func TestNew_Validation(t *testing.T) {
	if _, err := gemini.New(gemini.Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}

	c, err := gemini.New(gemini.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != gemini.DefaultModel {
		t.Errorf("expected default model, got %s", c.Model())
	}
}

func TestClient_GenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if r.Header.Get("x-goog-api-key") != "test-api-key" || r.URL.Query().Get("key") != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req gemini.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		text := req.Contents[0].Parts[0].Text
		if text == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if text == "forbidden topic" {
			w.Write([]byte(`{"promptFeedback": {"blockReason": "SAFETY"}}`))
			return
		}
		if text == "want_json" && (req.GenerationConfig == nil || req.GenerationConfig.ResponseMIMEType != gemini.MIMETypeJSON) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"candidates": [
				{
					"content": {
						"parts": [
							{ "text": "mocked " },
							{ "text": "response string" }
						],
						"role": "model"
					}
				}
			],
			"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 4, "totalTokenCount": 7}
		}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{APIKey: "test-api-key", APIURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Success Flow", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents: []gemini.Content{
				{Parts: []gemini.Part{{Text: "Hello world"}}},
			},
		}

		resp, err := client.GenerateContent(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text() != "mocked response string" {
			t.Errorf("unexpected content response: %s", resp.Text())
		}
		if resp.UsageMetadata == nil || resp.UsageMetadata.TotalTokenCount != 7 {
			t.Errorf("expected usage metadata, got %+v", resp.UsageMetadata)
		}
	})

	t.Run("JSON Mode", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents:         []gemini.Content{{Parts: []gemini.Part{{Text: "want_json"}}}},
			GenerationConfig: &gemini.GenerationConfig{ResponseMIMEType: gemini.MIMETypeJSON},
		}
		if _, err := client.GenerateContent(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Server Error Flow", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents: []gemini.Content{
				{Parts: []gemini.Part{{Text: "cause_500"}}},
			},
		}

		_, err := client.GenerateContent(context.Background(), req)
		if err == nil {
			t.Fatalf("expected error from 500 response")
		}
	})

	t.Run("Blocked Prompt", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents: []gemini.Content{{Parts: []gemini.Part{{Text: "forbidden topic"}}}},
		}

		_, err := client.GenerateContent(context.Background(), req)
		var blocked *gemini.BlockedError
		if !errors.As(err, &blocked) || blocked.Reason != "SAFETY" {
			t.Fatalf("expected BlockedError, got %v", err)
		}
	})

	t.Run("Server Error Carries Status", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents: []gemini.Content{{Parts: []gemini.Part{{Text: "cause_500"}}}},
		}

		_, err := client.GenerateContent(context.Background(), req)
		var apiErr *gemini.APIError
		if !errors.As(err, &apiErr) || apiErr.HTTPStatus() != http.StatusInternalServerError {
			t.Fatalf("expected APIError 500, got %v", err)
		}
	})
}
