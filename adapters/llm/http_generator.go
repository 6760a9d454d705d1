package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
)

const (
	defaultHTTPEndpoint = "https://api.deepseek.ai/v1/generate"
	defaultTimeout      = 7 * time.Second // the platform gives the skill 8 seconds
	maxErrorBodyBytes   = 4096

	// StoryTemperature is fixed for every provider
	StoryTemperature = 0.95
)

// HTTPConfig holds configuration for the HTTPGenerator
// Required fields:
// - APIKey: bearer token for the generation service
// Optional fields with defaults:
// - Endpoint: generation URL (default: "https://api.deepseek.ai/v1/generate")
// - Timeout: per-call timeout (default: 7s)
type HTTPConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// HTTPGenerator implements StoryGenerator against a plain JSON generation endpoint
type HTTPGenerator struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// Ensure HTTPGenerator implements the StoryGenerator interface
var _ repositories.StoryGenerator = (*HTTPGenerator)(nil)

// GenerateRequest is the payload posted to the generation endpoint
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// GenerateResponse is the success payload of the generation endpoint
type GenerateResponse struct {
	GeneratedText *string `json:"generated_text"`
}

// ValidateHTTPConfig validates the HTTPConfig
func ValidateHTTPConfig(config HTTPConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("generation API key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewHTTPGenerator creates a new HTTP generation client
func NewHTTPGenerator(config HTTPConfig, logger *zap.Logger) (*HTTPGenerator, error) {
	if err := ValidateHTTPConfig(config); err != nil {
		return nil, err
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultHTTPEndpoint
		logger.Info("Using default generation endpoint", zap.String("endpoint", endpoint))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default generation timeout", zap.Duration("timeout", timeout))
	}

	return &HTTPGenerator{
		apiKey:   config.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Generate posts the prompt and returns the generated_text field of the response
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	requestBody, err := json.Marshal(GenerateRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: StoryTemperature,
	})
	if err != nil {
		return "", &repositories.GenerationError{Provider: ProviderHTTP, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", &repositories.GenerationError{Provider: ProviderHTTP, Err: fmt.Errorf("failed to create HTTP request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	g.logger.Debug("Sending request to generation service",
		zap.String("endpoint", g.endpoint),
		zap.Int("maxTokens", maxTokens))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &repositories.GenerationError{Provider: ProviderHTTP, Err: fmt.Errorf("failed to execute HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		g.logger.Error("Generation service returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return "", &repositories.GenerationError{
			Provider:   ProviderHTTP,
			StatusCode: resp.StatusCode,
			Body:       string(errorBody),
		}
	}

	var decoded GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &repositories.GenerationError{
			Provider:   ProviderHTTP,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	if decoded.GeneratedText == nil || strings.TrimSpace(*decoded.GeneratedText) == "" {
		return "", &repositories.GenerationError{
			Provider:   ProviderHTTP,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response has no generated_text"),
		}
	}

	return *decoded.GeneratedText, nil
}
