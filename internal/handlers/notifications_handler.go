package handlers

import (
	"net/http"

	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/ahlulathar/ahlulathar-api/internal/notify"
	apperrors "github.com/ahlulathar/ahlulathar-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// NotificationsHandler exposes the notification center over HTTP
type NotificationsHandler struct {
	center *notify.Center
}

// NewNotificationsHandler creates a new NotificationsHandler
func NewNotificationsHandler(center *notify.Center) *NotificationsHandler {
	return &NotificationsHandler{
		center: center,
	}
}

// GetToasts handles GET /api/v1/notifications/toasts
// Returns pending toasts in arrival order
func (h *NotificationsHandler) GetToasts(c *gin.Context) {
	toasts := h.center.Toasts()
	c.JSON(http.StatusOK, gin.H{
		"toasts": toasts,
		"count":  len(toasts),
	})
}

// ShowToast handles POST /api/v1/notifications/toasts
func (h *NotificationsHandler) ShowToast(c *gin.Context) {
	var req models.ShowToastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	id := h.center.ShowMessage(req.Message, notify.Severity(req.Severity))

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DismissToast handles DELETE /api/v1/notifications/toasts/:id
// Dismissing an unknown or already-expired toast still succeeds
func (h *NotificationsHandler) DismissToast(c *gin.Context) {
	h.center.Dismiss(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetConfirm handles GET /api/v1/notifications/confirm
// Returns the pending confirmation dialog, if any
func (h *NotificationsHandler) GetConfirm(c *gin.Context) {
	dialog := h.center.PendingConfirm()
	if dialog == nil {
		c.JSON(http.StatusOK, gin.H{"pending": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending": true,
		"confirm": dialog,
	})
}

// resolveConfirmRequest carries the user's dialog decision
type resolveConfirmRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// ResolveConfirm handles POST /api/v1/notifications/confirm/resolve
// Accepting runs the staged action; declining discards it
func (h *NotificationsHandler) ResolveConfirm(c *gin.Context) {
	var req resolveConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if !h.center.ResolveConfirm(*req.Accepted) {
		respondError(c, http.StatusNotFound, "No pending confirmation", apperrors.NotFoundError("confirmation"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
