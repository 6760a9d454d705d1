package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RoleInvoker is the only role allowed to call the skill endpoints
const RoleInvoker = "invoker"

// ContextKeyClaims is the echo context key holding validated claims
const ContextKeyClaims = "auth_claims"

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	InvokerID string `json:"invoker_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidRole is returned for well-signed tokens that are not invoker tokens
var ErrInvalidRole = errors.New("token role is not allowed")

// Tokens issues and validates HS256 invoker tokens
type Tokens struct {
	secret []byte
}

// NewTokens creates a token service for the shared secret
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// GenerateInvokerToken generates a JWT for a skill invoker
func (t *Tokens) GenerateInvokerToken(invokerID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		InvokerID: invokerID,
		Role:      RoleInvoker,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   invokerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (t *Tokens) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Role != RoleInvoker {
		return nil, ErrInvalidRole
	}
	return claims, nil
}

// Middleware rejects requests without a valid invoker token in the Authorization header
func (t *Tokens) Middleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				logger.Warn("Request rejected: missing token", zap.String("path", c.Path()))
				return echo.NewHTTPError(http.StatusUnauthorized, "JWT token is required in Authorization header")
			}

			claims, err := t.ValidateToken(token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.String("path", c.Path()), zap.Error(err))
				if errors.Is(err, ErrInvalidRole) {
					return echo.NewHTTPError(http.StatusForbidden, "Only invoker tokens are allowed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired JWT token")
			}

			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}
