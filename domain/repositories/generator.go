package repositories

import (
	"context"
	"fmt"
)

// StoryGenerator abstracts the remote text-generation service
type StoryGenerator interface {
	// Generate sends the prompt and returns the generated text.
	// Any failure is reported as *GenerationError.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GenerationError reports a failed generation call. Body holds the raw
// service response for logs and must never be spoken to the user.
type GenerationError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *GenerationError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s generation failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s generation failed with status %d", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s generation failed", e.Provider)
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }
