package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// AuditHandler runs the financial audit and storage maintenance.
type AuditHandler struct {
	svc service.AuditService
}

func NewAuditHandler(svc service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// Run POST /api/v1/audit
func (h *AuditHandler) Run(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	result, err := h.svc.RunAudit(c.Request.Context(), claims.ID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// DeepClean POST /api/v1/maintenance/deep-clean
func (h *AuditHandler) DeepClean(c *gin.Context) {
	result, err := h.svc.DeepClean(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
