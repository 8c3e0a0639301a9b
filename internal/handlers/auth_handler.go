package handlers

import (
	"errors"
	"net/http"

	"github.com/ahlulathar/ahlulathar-api/internal/i18n"
	"github.com/ahlulathar/ahlulathar-api/internal/middleware"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	"github.com/ahlulathar/ahlulathar-api/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service      services.AuthServiceInterface
	i18nSession  *i18n.Session
	tokenManager *jwt.TokenManager
	cookieDomain string
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface, i18nSession *i18n.Session, tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		i18nSession:  i18nSession,
		tokenManager: tokenManager,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
	}
}

// localize resolves a dictionary path in the active language, falling back to
// the generic auth error when the path itself cannot be resolved
func (h *AuthHandler) localize(path string) string {
	msg, err := h.i18nSession.Translate(path, nil)
	if err != nil {
		return path
	}
	return msg
}

// Login handles POST /api/v1/auth/login
// Authenticates by phone number and password and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), &creds)
	if err != nil {
		status, path := loginErrorResponse(err)
		respondError(c, status, h.localize(path), err)
		return
	}

	token, err := h.tokenManager.GenerateToken(
		result.User.ID,
		result.User.DisplayName,
		result.User.PhoneNumber,
		string(result.User.Role),
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, h.localize("auth.errors.generic"), err)
		return
	}

	middleware.SetSessionCookie(
		c,
		token,
		int(h.tokenManager.GetExpirationTime().Seconds()),
		h.cookieDomain,
		h.cookieSecure,
	)

	c.JSON(http.StatusOK, models.LoginResponse{
		Success: true,
		User:    result.User,
	})
}

// loginErrorResponse maps a login failure to its HTTP status and dictionary path
func loginErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPhoneNotRegistered):
		return http.StatusNotFound, "auth.errors.phoneNotRegistered"
	case errors.Is(err, services.ErrNoPasswordSet):
		return http.StatusUnauthorized, "auth.errors.noPasswordSet"
	case errors.Is(err, services.ErrInvalidPassword):
		return http.StatusUnauthorized, "auth.errors.invalidPassword"
	case errors.Is(err, services.ErrAccountDisabled):
		return http.StatusForbidden, "auth.errors.accountDisabled"
	case errors.Is(err, services.ErrLoginSuperseded):
		return http.StatusConflict, "auth.errors.generic"
	default:
		return http.StatusInternalServerError, "auth.errors.generic"
	}
}

// Logout handles POST /api/v1/auth/logout
// Clears the server-side session and the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout()
	middleware.ClearSessionCookie(c, h.cookieDomain, h.cookieSecure)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session handles GET /api/v1/auth/session
// Returns the validated session claims together with the current user snapshot
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"user":    h.service.CurrentUser(),
		"state":   h.service.State(),
	})
}
