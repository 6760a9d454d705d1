// Command skilltoken mints an invoker JWT for the guarded skill endpoints.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abh2050/alexa-story-teller/internal/auth"
)

func main() {
	_ = godotenv.Load()

	invoker := flag.String("invoker", "alexa-gateway", "invoker id placed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	secret := os.Getenv("SKILL_JWT_SECRET")
	if secret == "" {
		logger.Fatal("SKILL_JWT_SECRET environment variable is required")
	}

	token, err := auth.NewTokens(secret).GenerateInvokerToken(*invoker, *ttl)
	if err != nil {
		logger.Fatal("Failed to generate token", zap.Error(err))
	}
	fmt.Println(token)
}
