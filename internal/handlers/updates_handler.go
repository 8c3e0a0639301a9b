package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ahlulathar/ahlulathar-api/internal/i18n"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/notify"
	"github.com/ahlulathar/ahlulathar-api/internal/services"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const deleteTimeout = 10 * time.Second

// UpdatesHandler handles the public updates feed and its admin mutations
type UpdatesHandler struct {
	service     services.UpdatesServiceInterface
	i18nSession *i18n.Session
	notify      *notify.Center
}

// NewUpdatesHandler creates a new UpdatesHandler
func NewUpdatesHandler(service services.UpdatesServiceInterface, i18nSession *i18n.Session, notifyCenter *notify.Center) *UpdatesHandler {
	return &UpdatesHandler{
		service:     service,
		i18nSession: i18nSession,
		notify:      notifyCenter,
	}
}

// GetUpdates handles GET /api/v1/updates
// Returns the feed, newest first
func (h *UpdatesHandler) GetUpdates(c *gin.Context) {
	updates, err := h.service.GetUpdates(c.Request.Context())
	if err != nil {
		msg, terr := h.i18nSession.Translate("updates.fetchError", nil)
		if terr != nil {
			msg = "Failed to load updates"
		}
		respondError(c, http.StatusInternalServerError, msg, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updates": updates,
		"count":   len(updates),
	})
}

// CreateUpdate handles POST /api/v1/updates (admin only)
func (h *UpdatesHandler) CreateUpdate(c *gin.Context) {
	var req models.CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	created, err := h.service.CreateUpdate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create update", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteUpdate handles DELETE /api/v1/updates/:id (admin only)
// Instead of deleting immediately, it stages a confirmation dialog. The
// deletion only runs when the dialog is accepted via the notifications API.
func (h *UpdatesHandler) DeleteUpdate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "Missing update id", nil)
		return
	}

	message, err := h.i18nSession.Translate("updates.deleteConfirm", nil)
	if err != nil {
		message = "updates.deleteConfirm"
	}

	h.notify.ShowConfirm(
		message,
		func() { h.performDelete(id) },
		nil,
		"", "",
		notify.ConfirmDanger,
	)

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": message,
	})
}

// performDelete runs the staged deletion once the dialog is accepted. It runs
// detached from the originating request, so it carries its own timeout.
func (h *UpdatesHandler) performDelete(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	if err := h.service.DeleteUpdate(ctx, id); err != nil {
		logger.Error("Staged update deletion failed",
			zap.String("update_id", id),
			zap.Error(err))
		h.showFeedback("updates.deleteError", notify.SeverityError)
		return
	}

	h.showFeedback("updates.deleted", notify.SeveritySuccess)
}

// showFeedback publishes a localized toast for a background operation
func (h *UpdatesHandler) showFeedback(path string, severity notify.Severity) {
	msg, err := h.i18nSession.Translate(path, nil)
	if err != nil {
		msg = path
	}
	h.notify.ShowMessage(msg, severity)
}
