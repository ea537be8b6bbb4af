package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// DashboardHandler serves the role-specific home screen and the quote of
// the day.
type DashboardHandler struct {
	dashboardSvc  service.DashboardService
	motivationSvc service.MotivationService
}

func NewDashboardHandler(dashboardSvc service.DashboardService, motivationSvc service.MotivationService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, motivationSvc: motivationSvc}
}

// Get GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	viewer, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.dashboardSvc.Get(c.Request.Context(), viewer)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Motivation GET /api/v1/motivation
func (h *DashboardHandler) Motivation(c *gin.Context) {
	response.OK(c, gin.H{"quote": h.motivationSvc.Quote(c.Request.Context())})
}
