package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
)

const (
	defaultOpenAIBaseURL = "https://api.deepseek.com/v1"
	defaultOpenAIModel   = "deepseek-chat"
)

// OpenAIConfig holds configuration for an OpenAI-compatible completions API
type OpenAIConfig struct {
	APIKey  string        // Required
	BaseURL string        // Optional (default: "https://api.deepseek.com/v1")
	Model   string        // Optional (default: "deepseek-chat")
	Timeout time.Duration // Optional (default: 7s)
}

// OpenAIGenerator implements StoryGenerator with the completions endpoint
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ repositories.StoryGenerator = (*OpenAIGenerator)(nil)

// ValidateOpenAIConfig validates the OpenAIConfig
func ValidateOpenAIConfig(config OpenAIConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("OpenAI-compatible API key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewOpenAIGenerator creates a generator backed by go-openai
func NewOpenAIGenerator(config OpenAIConfig, logger *zap.Logger) (*OpenAIGenerator, error) {
	if err := ValidateOpenAIConfig(config); err != nil {
		return nil, err
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
		logger.Info("Using default OpenAI base URL", zap.String("baseURL", baseURL))
	}

	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
		logger.Info("Using default model", zap.String("model", model))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default generation timeout", zap.Duration("timeout", timeout))
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = baseURL

	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate requests a single completion for the prompt
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       g.model,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: StoryTemperature,
	})
	if err != nil {
		genErr := &repositories.GenerationError{Provider: ProviderOpenAI, Err: err}
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		switch {
		case errors.As(err, &apiErr):
			genErr.StatusCode = apiErr.HTTPStatusCode
			genErr.Body = apiErr.Message
		case errors.As(err, &reqErr):
			genErr.StatusCode = reqErr.HTTPStatusCode
		}
		return "", genErr
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Text) == "" {
		return "", &repositories.GenerationError{Provider: ProviderOpenAI, Err: fmt.Errorf("no completion text returned")}
	}

	g.logger.Debug("Completion received",
		zap.String("model", g.model),
		zap.String("finishReason", resp.Choices[0].FinishReason),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Text, nil
}
