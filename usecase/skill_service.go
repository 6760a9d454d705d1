package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/entities"
	"github.com/abh2050/alexa-story-teller/domain/repositories"
	"github.com/abh2050/alexa-story-teller/internal/metrics"
)

// Route names, also used as metric labels
const (
	RouteLaunch       = "Launch"
	RouteStory        = "Story"
	RouteHelp         = "Help"
	RouteCancelOrStop = "CancelOrStop"
	RouteSessionEnded = "SessionEnded"
	RouteUnhandled    = "Unhandled"
)

// SkillService answers voice-platform request envelopes
type SkillService struct {
	router *Router
	logger *zap.Logger
}

// NewSkillService wires the handlers into the dispatch table
func NewSkillService(generator repositories.StoryGenerator, logger *zap.Logger) *SkillService {
	h := NewHandlers(generator, logger)
	router := NewRouter(
		Route{Name: RouteUnhandled, Match: func(entities.Request) bool { return true }, Handle: h.Unhandled},
		Route{Name: RouteLaunch, Match: IsRequestType(entities.RequestTypeLaunch), Handle: h.Launch},
		Route{Name: RouteStory, Match: IsIntentName(entities.IntentStory), Handle: h.Story},
		Route{Name: RouteHelp, Match: IsIntentName(entities.IntentHelp), Handle: h.Help},
		Route{Name: RouteCancelOrStop, Match: IsIntentName(entities.IntentCancel, entities.IntentStop), Handle: h.CancelOrStop},
		Route{Name: RouteSessionEnded, Match: IsRequestType(entities.RequestTypeSessionEnded), Handle: h.SessionEnded},
	)
	return &SkillService{router: router, logger: logger}
}

// Router exposes the dispatch table
func (s *SkillService) Router() *Router {
	return s.router
}

// Handle dispatches one request envelope and renders the platform response
func (s *SkillService) Handle(ctx context.Context, env entities.RequestEnvelope) entities.ResponseEnvelope {
	route, spoken := s.router.Dispatch(ctx, env)
	metrics.IncRequest(route.Name)

	s.logger.Debug("Request dispatched",
		zap.String("route", route.Name),
		zap.String("requestType", string(env.Request.Type)),
		zap.String("requestID", env.Request.RequestID),
		zap.String("sessionID", env.Session.SessionID),
		zap.Bool("shouldEndSession", spoken.ShouldEndSession),
		zap.Bool("expectsReply", spoken.ExpectsReply))

	return spoken.Envelope()
}
