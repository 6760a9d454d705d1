package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
	"github.com/abh2050/alexa-story-teller/internal/config"
)

// Provider names accepted by GENERATION_PROVIDER
const (
	ProviderHTTP   = config.ProviderHTTP
	ProviderOpenAI = config.ProviderOpenAI
	ProviderGemini = config.ProviderGemini
	ProviderMock   = config.ProviderMock
)

// NewStoryGenerator builds the generator selected by the configuration,
// wrapped in a circuit breaker when enabled.
func NewStoryGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) (repositories.StoryGenerator, error) {
	timeout := time.Duration(cfg.Generation.TimeoutSeconds) * time.Second

	var (
		generator repositories.StoryGenerator
		err       error
	)
	switch cfg.Generation.Provider {
	case ProviderHTTP:
		generator, err = NewHTTPGenerator(HTTPConfig{
			APIKey:   cfg.Generation.APIKey,
			Endpoint: cfg.Generation.Endpoint,
			Timeout:  timeout,
		}, logger)
	case ProviderOpenAI:
		generator, err = NewOpenAIGenerator(OpenAIConfig{
			APIKey:  cfg.Generation.APIKey,
			BaseURL: cfg.Generation.OpenAIBaseURL,
			Model:   cfg.Generation.OpenAIModel,
			Timeout: timeout,
		}, logger)
	case ProviderGemini:
		generator, err = NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:  cfg.Generation.GeminiAPIKey,
			Model:   cfg.Generation.GeminiModel,
			Timeout: timeout,
		}, logger)
	case ProviderMock:
		generator = NewMockGenerator()
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", cfg.Generation.Provider, err)
	}

	if !cfg.Breaker.Enabled {
		return generator, nil
	}
	return NewBreakerGenerator(cfg.Generation.Provider, generator, BreakerConfig{
		MaxFailures: uint32(cfg.Breaker.MaxFailures),
		OpenTimeout: time.Duration(cfg.Breaker.OpenSeconds) * time.Second,
	}, logger), nil
}
