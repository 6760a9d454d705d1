package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/entities"
	"github.com/abh2050/alexa-story-teller/domain/repositories"
	"github.com/abh2050/alexa-story-teller/internal/metrics"
	"github.com/abh2050/alexa-story-teller/internal/ssml"
)

// Spoken texts
const (
	WelcomeText = "Welcome to Magic Storyland. " +
		"You can ask me to tell you a story. For example, say, 'Tell me a story about a monkey on an adventure.'"
	HelpText        = "You can ask me to tell you a story. For example, say, 'Tell me a story about a robot in space.'"
	GoodbyeText     = "Goodbye!"
	StoryApology    = "I'm sorry, I encountered an error while generating your story. Please try again later."
	UnsupportedText = "Sorry, I can't help with that. You can ask me to tell you a story."
)

// Handlers holds the dependencies shared by the skill handlers
type Handlers struct {
	generator repositories.StoryGenerator
	logger    *zap.Logger
}

// NewHandlers creates the skill handlers
func NewHandlers(generator repositories.StoryGenerator, logger *zap.Logger) *Handlers {
	return &Handlers{generator: generator, logger: logger}
}

// Launch greets the user and explains usage
func (h *Handlers) Launch(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse {
	return entities.Ask(WelcomeText)
}

// Help repeats the usage example
func (h *Handlers) Help(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse {
	return entities.Ask(HelpText)
}

// CancelOrStop says goodbye without setting the session flag
func (h *Handlers) CancelOrStop(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse {
	return entities.Tell(GoodbyeText)
}

// SessionEnded acknowledges the end of the session with an empty response
func (h *Handlers) SessionEnded(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse {
	h.logger.Info("Session ended",
		zap.String("sessionID", env.Session.SessionID),
		zap.String("reason", env.Request.Reason))
	return entities.Empty()
}

// Unhandled answers requests no route claims
func (h *Handlers) Unhandled(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse {
	h.logger.Warn("Unsupported request",
		zap.String("requestType", string(env.Request.Type)),
		zap.String("intent", env.Request.IntentName()),
		zap.String("requestID", env.Request.RequestID))
	return entities.Ask(UnsupportedText)
}

// Story generates a story from the intent slots. Generation failures are
// logged and replaced by a fixed apology; the session ends either way.
func (h *Handlers) Story(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse {
	prompt := BuildPrompt(env.Request.IntentSlots())
	text := ToPrompt(prompt)
	maxTokens := ToMaxTokens(prompt.WordCount)

	h.logger.Info("Generated prompt",
		zap.String("requestID", env.Request.RequestID),
		zap.String("prompt", text),
		zap.Int("maxTokens", maxTokens))

	start := time.Now()
	story, err := h.generator.Generate(ctx, text, maxTokens)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveGeneration(metrics.OutcomeFailure, elapsed)
		fields := []zap.Field{
			zap.String("requestID", env.Request.RequestID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		}
		var genErr *repositories.GenerationError
		if errors.As(err, &genErr) {
			fields = append(fields,
				zap.String("provider", genErr.Provider),
				zap.Int("statusCode", genErr.StatusCode),
				zap.String("responseBody", genErr.Body))
		}
		h.logger.Error("Error generating story", fields...)
		story = StoryApology
	} else {
		metrics.ObserveGeneration(metrics.OutcomeSuccess, elapsed)
		h.logger.Info("Story generated",
			zap.String("requestID", env.Request.RequestID),
			zap.Duration("elapsed", elapsed),
			zap.Int("length", len(story)))
	}

	return entities.SpokenResponse{
		Text:             ssml.Speak(story),
		Format:           entities.SpeechSSML,
		ShouldEndSession: true,
	}
}
