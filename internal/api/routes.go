package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/domain/entities"
	"github.com/abh2050/alexa-story-teller/internal/auth"
	"github.com/abh2050/alexa-story-teller/internal/metrics"
	"github.com/abh2050/alexa-story-teller/internal/websocket"
)

// ServiceName is reported by the health check
const ServiceName = "storyland"

// InitRoutes initializes all API routes. tokens may be nil, which leaves
// the skill endpoints unguarded.
func InitRoutes(e *echo.Echo, skill websocket.SkillHandler, hub *websocket.Hub, tokens *auth.Tokens, logger *zap.Logger) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: ServiceName,
		})
	})
	e.GET("/metrics", metrics.Handler())

	var guard []echo.MiddlewareFunc
	if tokens != nil {
		guard = append(guard, tokens.Middleware(logger))
	}

	e.POST("/skill", func(c echo.Context) error {
		return handleSkill(c, skill, logger)
	}, guard...)

	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(hub, c, invokerID(c), logger)
	}, guard...)
}

func handleSkill(c echo.Context, skill websocket.SkillHandler, logger *zap.Logger) error {
	var env entities.RequestEnvelope
	if err := c.Bind(&env); err != nil {
		logger.Warn("Failed to bind skill request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if err := env.Validate(); err != nil {
		logger.Warn("Invalid skill request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, skill.Handle(c.Request().Context(), env))
}

func invokerID(c echo.Context) string {
	if claims, ok := c.Get(auth.ContextKeyClaims).(*auth.JWTClaims); ok {
		return claims.InvokerID
	}
	return ""
}
