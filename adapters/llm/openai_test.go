package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
)

func TestValidateOpenAIConfig(t *testing.T) {
	if err := ValidateOpenAIConfig(OpenAIConfig{}); err == nil {
		t.Error("Expected error for missing API key")
	}
	if err := ValidateOpenAIConfig(OpenAIConfig{APIKey: "key"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenAIGeneratorCompletion(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("Unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "text_completion",
			"model": "deepseek-chat",
			"choices": [{"text": "Once upon a time...", "index": 0, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`))
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "key", BaseURL: server.URL + "/v1"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIGenerator error: %v", err)
	}

	text, err := gen.Generate(context.Background(), "Tell a story", 400)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "Once upon a time..." {
		t.Errorf("Unexpected text %q", text)
	}
	if got["model"] != defaultOpenAIModel || got["prompt"] != "Tell a story" || got["max_tokens"] != float64(400) {
		t.Errorf("Unexpected request body %v", got)
	}
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited","type":"rate_limit"}}`, wantStatus: 429},
		{name: "no choices", status: http.StatusOK, body: `{"id":"cmpl-1","choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gen, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "key", BaseURL: server.URL}, zaptest.NewLogger(t))
			if err != nil {
				t.Fatalf("NewOpenAIGenerator error: %v", err)
			}

			_, err = gen.Generate(context.Background(), "prompt", 10)
			var genErr *repositories.GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("Expected GenerationError, got %v", err)
			}
			if genErr.Provider != ProviderOpenAI {
				t.Errorf("Expected provider %s, got %s", ProviderOpenAI, genErr.Provider)
			}
			if genErr.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, genErr.StatusCode)
			}
		})
	}
}
