package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abh2050/alexa-story-teller/adapters/llm"
	"github.com/abh2050/alexa-story-teller/domain/entities"
	"github.com/abh2050/alexa-story-teller/domain/repositories"
	"github.com/abh2050/alexa-story-teller/internal/ssml"
)

type stubGenerator struct {
	mu        sync.Mutex
	text      string
	err       error
	prompts   []string
	maxTokens []int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	s.maxTokens = append(s.maxTokens, maxTokens)
	return s.text, s.err
}

func storyEnvelope(slots entities.Slots) entities.RequestEnvelope {
	return entities.RequestEnvelope{
		Version: "1.0",
		Session: entities.Session{SessionID: "session-1"},
		Request: entities.Request{
			Type:      entities.RequestTypeIntent,
			RequestID: "request-1",
			Intent:    &entities.Intent{Name: entities.IntentStory, Slots: slots},
		},
	}
}

func TestSimpleHandlers(t *testing.T) {
	svc := NewSkillService(&stubGenerator{}, zaptest.NewLogger(t))
	ctx := context.Background()

	tests := []struct {
		name       string
		req        entities.Request
		wantText   string
		wantEnd    *bool
		wantPrompt bool
	}{
		{name: "launch", req: entities.Request{Type: entities.RequestTypeLaunch}, wantText: WelcomeText, wantEnd: boolPtr(false), wantPrompt: true},
		{name: "help", req: intentRequest(entities.IntentHelp), wantText: HelpText, wantEnd: boolPtr(false), wantPrompt: true},
		{name: "cancel", req: intentRequest(entities.IntentCancel), wantText: GoodbyeText},
		{name: "stop", req: intentRequest(entities.IntentStop), wantText: GoodbyeText},
		{name: "unhandled", req: intentRequest("AMAZON.FallbackIntent"), wantText: UnsupportedText, wantEnd: boolPtr(false), wantPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.Handle(ctx, entities.RequestEnvelope{Request: tt.req})
			if resp.Response.OutputSpeech == nil || resp.Response.OutputSpeech.Text != tt.wantText {
				t.Fatalf("Unexpected speech %+v", resp.Response.OutputSpeech)
			}
			got := resp.Response.ShouldEndSession
			if tt.wantEnd == nil && got != nil {
				t.Errorf("Expected shouldEndSession unset, got %v", *got)
			}
			if tt.wantEnd != nil && (got == nil || *got != *tt.wantEnd) {
				t.Errorf("Expected shouldEndSession %v, got %v", *tt.wantEnd, got)
			}
			if tt.wantPrompt && (resp.Response.Reprompt == nil || resp.Response.Reprompt.OutputSpeech.Text != tt.wantText) {
				t.Errorf("Expected reprompt with the same text, got %+v", resp.Response.Reprompt)
			}
		})
	}
}

func TestSessionEndedIsEmpty(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewSkillService(&stubGenerator{}, zap.New(core))

	resp := svc.Handle(context.Background(), entities.RequestEnvelope{
		Session: entities.Session{SessionID: "session-9"},
		Request: entities.Request{Type: entities.RequestTypeSessionEnded, Reason: "USER_INITIATED"},
	})

	if resp.Response.OutputSpeech != nil || resp.Response.Reprompt != nil || resp.Response.ShouldEndSession != nil {
		t.Errorf("Expected empty response, got %+v", resp.Response)
	}
	entries := logs.FilterMessage("Session ended").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one session ended log, got %d", len(entries))
	}
	if entries[0].ContextMap()["reason"] != "USER_INITIATED" {
		t.Errorf("Expected reason logged, got %v", entries[0].ContextMap())
	}
}

func TestStorySuccess(t *testing.T) {
	gen := &stubGenerator{text: "Once upon a time..."}
	h := NewHandlers(gen, zaptest.NewLogger(t))

	spoken := h.Story(context.Background(), storyEnvelope(entities.Slots{
		entities.SlotSubject: {Name: entities.SlotSubject, Value: "robot"},
	}))

	if spoken.Text != "<speak>Once upon a time...</speak>" {
		t.Errorf("Unexpected story speech %q", spoken.Text)
	}
	if spoken.Format != entities.SpeechSSML || !spoken.ShouldEndSession {
		t.Errorf("Expected ending SSML response, got %+v", spoken)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("Expected one generation call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Main Subject: robot.") {
		t.Errorf("Prompt does not mention subject: %s", gen.prompts[0])
	}
	if gen.maxTokens[0] != 400 {
		t.Errorf("Expected 400 max tokens, got %d", gen.maxTokens[0])
	}
}

func TestStoryEscapesGeneratedText(t *testing.T) {
	h := NewHandlers(&stubGenerator{text: "Cats & dogs <3"}, zaptest.NewLogger(t))
	spoken := h.Story(context.Background(), storyEnvelope(nil))
	if spoken.Text != "<speak>Cats &amp; dogs &lt;3</speak>" {
		t.Errorf("Expected escaped story, got %q", spoken.Text)
	}
}

func TestStoryFailureSpeaksApology(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	gen := &stubGenerator{err: &repositories.GenerationError{Provider: "http", StatusCode: 500, Body: "upstream exploded"}}
	h := NewHandlers(gen, zap.New(core))

	spoken := h.Story(context.Background(), storyEnvelope(nil))

	if spoken.Text != ssml.Speak(StoryApology) {
		t.Errorf("Expected apology, got %q", spoken.Text)
	}
	if strings.Contains(spoken.Text, "upstream exploded") {
		t.Error("Service error body must not be spoken")
	}
	if !spoken.ShouldEndSession {
		t.Error("Expected session to end after apology")
	}

	entries := logs.FilterMessage("Error generating story").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one error log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["statusCode"] != int64(500) || fields["responseBody"] != "upstream exploded" {
		t.Errorf("Expected status and body in log fields, got %v", fields)
	}
}

func TestStoryFailureWithPlainError(t *testing.T) {
	h := NewHandlers(&stubGenerator{err: errors.New("boom")}, zaptest.NewLogger(t))
	spoken := h.Story(context.Background(), storyEnvelope(nil))
	if spoken.Text != ssml.Speak(StoryApology) {
		t.Errorf("Expected apology, got %q", spoken.Text)
	}
}

func TestStoryAgainstHTTPGenerator(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantSpeech string
	}{
		{name: "success", status: http.StatusOK, body: `{"generated_text":"Once upon a time..."}`, wantSpeech: "<speak>Once upon a time...</speak>"},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"overloaded"}`, wantSpeech: ssml.Speak(StoryApology)},
		{name: "missing field", status: http.StatusOK, body: `{"text":"Once upon a time..."}`, wantSpeech: ssml.Speak(StoryApology)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received llm.GenerateRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&received)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			logger := zaptest.NewLogger(t)
			gen, err := llm.NewHTTPGenerator(llm.HTTPConfig{APIKey: "test-key", Endpoint: server.URL}, logger)
			if err != nil {
				t.Fatalf("NewHTTPGenerator error: %v", err)
			}
			svc := NewSkillService(gen, logger)

			resp := svc.Handle(context.Background(), storyEnvelope(entities.Slots{
				entities.SlotSubject: {Name: entities.SlotSubject, Value: "robot"},
			}))

			if resp.Response.OutputSpeech == nil || resp.Response.OutputSpeech.SSML != tt.wantSpeech {
				t.Errorf("Unexpected speech %+v", resp.Response.OutputSpeech)
			}
			if resp.Response.ShouldEndSession == nil || !*resp.Response.ShouldEndSession {
				t.Error("Expected shouldEndSession true")
			}
			if !strings.Contains(received.Prompt, "Main Subject: robot.") || received.MaxTokens != 400 {
				t.Errorf("Unexpected generation request %+v", received)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
