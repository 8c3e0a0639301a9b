package handlers

import (
	"errors"
	"net/http"

	"github.com/ahlulathar/ahlulathar-api/internal/middleware"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	apperrors "github.com/ahlulathar/ahlulathar-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile endpoints for the authenticated user
type ProfileHandler struct {
	profileService services.ProfileServiceInterface
	authService    services.AuthServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService services.ProfileServiceInterface, authService services.AuthServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
	}
}

// UploadAvatar handles POST /api/v1/profile/avatar
// Uploads a new avatar for the session user and refreshes the cached snapshot
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.UploadAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	url, err := h.profileService.UploadAvatar(c.Request.Context(), session.UserID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		if errors.Is(err, services.ErrStorageUnavailable) {
			respondError(c, http.StatusServiceUnavailable, "Avatar uploads are unavailable", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to upload avatar", err)
		return
	}

	h.authService.SetPhotoURL(url)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"photoURL": url,
	})
}
