package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/response"
)

const (
	// UserIDKey is the context key for the authenticated user id
	UserIDKey = "user_id"
	// EmailKey is the context key for the authenticated email
	EmailKey = "email"

	sessionKey   = "session"
	bearerPrefix = "Bearer "
)

// TokenValidator turns a bearer token into a session
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.Session, error)
}

// Auth requires a valid bearer token and stores the session in the context
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			response.Unauthorized(c, "INVALID_TOKEN", "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(authHeader[len(bearerPrefix):])

		session, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				response.Unauthorized(c, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, session.UserID)
		c.Set(EmailKey, session.Email)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession returns the caller's session, nil when the request is anonymous
func GetSession(c *gin.Context) *domain.Session {
	if v, exists := c.Get(sessionKey); exists {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}
