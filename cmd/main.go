package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/adapters/llm"
	"github.com/abh2050/alexa-story-teller/internal/api"
	"github.com/abh2050/alexa-story-teller/internal/auth"
	"github.com/abh2050/alexa-story-teller/internal/config"
	"github.com/abh2050/alexa-story-teller/internal/websocket"
	"github.com/abh2050/alexa-story-teller/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Fatal syncs before exiting
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		logger.Warn("Unknown LOG_LEVEL, using info", zap.String("logLevel", cfg.LogLevel))
	}
	defer logger.Sync()

	// Initialize adapters
	generator, err := llm.NewStoryGenerator(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create story generator", zap.Error(err))
	}

	// Initialize usecase services
	skill := usecase.NewSkillService(generator, logger)

	hub := websocket.NewHub(skill, logger)
	go hub.Run()

	var tokens *auth.Tokens
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokens(cfg.Auth.JWTSecret)
	} else {
		logger.Warn("SKILL_JWT_SECRET is not set; skill endpoints are unguarded")
	}

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("requestID", v.RequestID))
			return nil
		},
	}))
	e.Use(middleware.Recover())

	api.InitRoutes(e, skill, hub, tokens, logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Storyland skill server started",
		zap.String("port", cfg.Port),
		zap.String("provider", cfg.Generation.Provider),
		zap.Strings("routes", skill.Router().Routes()))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newLogger builds the process logger for level. debug selects the
// development encoder; an unknown level falls back to info and is reported.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	zcfg := zap.NewProductionConfig()
	atomic, parseErr := zap.ParseAtomicLevel(level)
	if parseErr == nil {
		zcfg.Level = atomic
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop(), err
	}
	return logger, parseErr
}
