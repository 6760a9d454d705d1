package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds configuration for the GeminiGenerator
type GeminiConfig struct {
	APIKey  string        // Required: Google AI API key
	Model   string        // Optional: model name (default: "gemini-2.0-flash")
	BaseURL string        // Optional: API base URL override
	Timeout time.Duration // Optional: per-call timeout (default: 7s)
}

// GeminiGenerator implements StoryGenerator using Google's Gemini API
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ repositories.StoryGenerator = (*GeminiGenerator)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewGeminiGenerator creates a new Gemini story generator
func NewGeminiGenerator(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
		logger.Info("Using default model", zap.String("model", model))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default generation timeout", zap.Duration("timeout", timeout))
	}

	return &GeminiGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate asks Gemini for a single completion of the prompt
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(StoryTemperature)),
		MaxOutputTokens: int32(maxTokens),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		genErr := &repositories.GenerationError{Provider: ProviderGemini, Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			genErr.StatusCode = apiErr.Code
			genErr.Body = apiErr.Message
		}
		return "", genErr
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", &repositories.GenerationError{Provider: ProviderGemini, Err: fmt.Errorf("no candidates returned")}
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", &repositories.GenerationError{Provider: ProviderGemini, Err: fmt.Errorf("empty response")}
	}

	g.logger.Debug("Gemini story generated",
		zap.String("model", g.model),
		zap.Int("length", text.Len()))

	return text.String(), nil
}
