package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/abh2050/alexa-story-teller/adapters/llm"
	"github.com/abh2050/alexa-story-teller/domain/entities"
	"github.com/abh2050/alexa-story-teller/internal/auth"
	"github.com/abh2050/alexa-story-teller/internal/ssml"
	"github.com/abh2050/alexa-story-teller/internal/websocket"
	"github.com/abh2050/alexa-story-teller/usecase"
)

const storyRequest = `{
	"version": "1.0",
	"session": {"new": true, "sessionId": "session-1"},
	"request": {
		"type": "IntentRequest",
		"requestId": "request-1",
		"intent": {"name": "StoryIntent", "slots": {"subject": {"name": "subject", "value": "robot"}}}
	}
}`

func newTestServer(t *testing.T, generationStatus int, generationBody string, tokens *auth.Tokens) *echo.Echo {
	t.Helper()

	generation := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(generationStatus)
		_, _ = w.Write([]byte(generationBody))
	}))
	t.Cleanup(generation.Close)

	logger := zaptest.NewLogger(t)
	gen, err := llm.NewHTTPGenerator(llm.HTTPConfig{APIKey: "key", Endpoint: generation.URL}, logger)
	if err != nil {
		t.Fatalf("NewHTTPGenerator error: %v", err)
	}
	skill := usecase.NewSkillService(gen, logger)
	hub := websocket.NewHub(skill, logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	e := echo.New()
	InitRoutes(e, skill, hub, tokens, logger)
	return e
}

func postSkill(e *echo.Echo, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/skill", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, http.StatusOK, `{}`, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if health.Status != "ok" || health.Service != ServiceName {
		t.Errorf("Unexpected health %+v", health)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t, http.StatusOK, `{"generated_text":"Once upon a time..."}`, nil)
	postSkill(e, storyRequest, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `storyland_requests_total{route="Story"}`) {
		t.Errorf("Expected story request counter in metrics output")
	}
}

func TestSkillStory(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantSpeech string
	}{
		{name: "generated story", status: http.StatusOK, body: `{"generated_text":"Once upon a time..."}`, wantSpeech: "<speak>Once upon a time...</speak>"},
		{name: "generation failure", status: http.StatusInternalServerError, body: `boom`, wantSpeech: ssml.Speak(usecase.StoryApology)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(t, tt.status, tt.body, nil)
			rec := postSkill(e, storyRequest, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp entities.ResponseEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if resp.Response.OutputSpeech == nil || resp.Response.OutputSpeech.SSML != tt.wantSpeech {
				t.Errorf("Unexpected speech %+v", resp.Response.OutputSpeech)
			}
			if resp.Response.ShouldEndSession == nil || !*resp.Response.ShouldEndSession {
				t.Error("Expected shouldEndSession true")
			}
		})
	}
}

func TestSkillBadRequests(t *testing.T) {
	e := newTestServer(t, http.StatusOK, `{}`, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"request":`},
		{name: "missing type", body: `{"version":"1.0","request":{}}`},
		{name: "intent without name", body: `{"request":{"type":"IntentRequest","intent":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSkill(e, tt.body, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			var errResp ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &errResp)
			if errResp.Error != "invalid_request" {
				t.Errorf("Unexpected error body %s", rec.Body.String())
			}
		})
	}
}

func TestSkillGuarded(t *testing.T) {
	tokens := auth.NewTokens("test-secret")
	e := newTestServer(t, http.StatusOK, `{"generated_text":"Once upon a time..."}`, tokens)

	if rec := postSkill(e, storyRequest, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	token, err := tokens.GenerateInvokerToken("gateway-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateInvokerToken error: %v", err)
	}
	if rec := postSkill(e, storyRequest, token); rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with token, got %d", rec.Code)
	}

	health := httptest.NewRecorder()
	e.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	if health.Code != http.StatusOK {
		t.Errorf("Expected health to stay public, got %d", health.Code)
	}
}

func TestSkillLaunchKeepsSessionOpen(t *testing.T) {
	e := newTestServer(t, http.StatusOK, `{}`, nil)
	rec := postSkill(e, `{"version":"1.0","request":{"type":"LaunchRequest","requestId":"r"}}`, "")

	var resp entities.ResponseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if resp.Response.OutputSpeech == nil || resp.Response.OutputSpeech.Text != usecase.WelcomeText {
		t.Errorf("Unexpected speech %+v", resp.Response.OutputSpeech)
	}
	if resp.Response.ShouldEndSession == nil || *resp.Response.ShouldEndSession {
		t.Error("Expected shouldEndSession false")
	}
}
