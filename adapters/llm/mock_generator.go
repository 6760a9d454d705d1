package llm

import (
	"context"
	"fmt"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
)

// MockGenerator returns a canned story, for local development without an API key
type MockGenerator struct{}

// NewMockGenerator creates a new mock generator
func NewMockGenerator() repositories.StoryGenerator {
	return &MockGenerator{}
}

// Generate implements repositories.StoryGenerator
func (g *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &repositories.GenerationError{Provider: ProviderMock, Err: err}
	}
	return fmt.Sprintf("Once upon a time, in a magical forest, a curious monkey set out on an adventure. "+
		"The end. (mock story, %d token budget)", maxTokens), nil
}
