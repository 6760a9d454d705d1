package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/repositories"
	"github.com/abh2050/alexa-story-teller/internal/metrics"
)

const (
	defaultBreakerMaxFailures = 5
	defaultBreakerOpenTimeout = 30 * time.Second
)

// BreakerConfig controls when the breaker trips and how long it stays open
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures before opening (default: 5)
	OpenTimeout time.Duration // time spent open before a trial call (default: 30s)
}

// BreakerGenerator fails fast while the wrapped generator keeps failing
type BreakerGenerator struct {
	next    repositories.StoryGenerator
	breaker *gobreaker.CircuitBreaker
	name    string
}

var _ repositories.StoryGenerator = (*BreakerGenerator)(nil)

// NewBreakerGenerator wraps next with a circuit breaker
func NewBreakerGenerator(name string, next repositories.StoryGenerator, config BreakerConfig, logger *zap.Logger) *BreakerGenerator {
	maxFailures := config.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	openTimeout := config.OpenTimeout
	if openTimeout == 0 {
		openTimeout = defaultBreakerOpenTimeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.SetBreakerOpen(to == gobreaker.StateOpen)
		},
	})

	return &BreakerGenerator{next: next, breaker: cb, name: name}
}

// Generate forwards to the wrapped generator unless the breaker is open
func (b *BreakerGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, prompt, maxTokens)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &repositories.GenerationError{Provider: b.name, Err: err}
		}
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state
func (b *BreakerGenerator) State() gobreaker.State {
	return b.breaker.State()
}
