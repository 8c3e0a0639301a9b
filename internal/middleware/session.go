package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
	apperrors "github.com/ahlulathar/ahlulathar-api/pkg/errors"
	"github.com/ahlulathar/ahlulathar-api/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "athar_session"

	// SessionContextKey is the key used to store session in context
	SessionContextKey = "athar_session"
)

var (
	ErrSessionNotFound = fmt.Errorf("session not found in context: %w", apperrors.ErrUnauthorized)
	ErrInvalidSession  = fmt.Errorf("invalid session type: %w", apperrors.ErrUnauthorized)
)

// SessionMiddleware validates the JWT session cookie and adds the session to context
func SessionMiddleware(tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			_ = c.Error(fmt.Errorf("missing session cookie")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(cookie)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid session token: %w", err)) //nolint:errcheck

			// Clear invalid cookie
			clearSessionCookie(c, cookieDomain, cookieSecure)

			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		session := &models.Session{
			UserID:      claims.UserID,
			DisplayName: claims.DisplayName,
			PhoneNumber: claims.PhoneNumber,
			Role:        models.Role(claims.Role),
			ExpiresAt:   claims.ExpiresAt.Unix(),
			IssuedAt:    claims.IssuedAt.Unix(),
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session carries one of the given roles.
// Must run after SessionMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		_ = c.Error(apperrors.AccessDeniedError(fmt.Sprintf("role %q not permitted", session.Role))) //nolint:errcheck
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		c.Abort()
	}
}

// GetSession extracts the session from context
func GetSession(c *gin.Context) (*models.Session, error) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := val.(*models.Session)
	if !ok {
		return nil, ErrInvalidSession
	}

	return session, nil
}

// SetSessionCookie sets the session cookie
func SetSessionCookie(c *gin.Context, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		token,
		ttlSeconds,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c *gin.Context, domain string, secure bool) {
	clearSessionCookie(c, domain, secure)
}

func clearSessionCookie(c *gin.Context, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}
