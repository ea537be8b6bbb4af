package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// NotificationHandler serves the in-app alerts of the calling session.
type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	response.OK(c, h.svc.List(c.Request.Context(), claims.ID))
}

// Dismiss DELETE /api/v1/notifications/:id
//
// Always 200; dismissed is false when the alert had already expired.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	dismissed := h.svc.Dismiss(c.Request.Context(), claims.ID, c.Param("id"))
	response.OK(c, gin.H{"dismissed": dismissed})
}
