package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// TransferHandler moves the whole roster between installations.
type TransferHandler struct {
	svc service.TransferService
}

func NewTransferHandler(svc service.TransferService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// Export GET /api/v1/transfer/export
func (h *TransferHandler) Export(c *gin.Context) {
	result, err := h.svc.Export(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Import POST /api/v1/transfer/import
//
// Accepts a bare token or a share link carrying one.
func (h *TransferHandler) Import(c *gin.Context) {
	var req dto.TransferImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.Import(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransferUnsupportedVersion):
			response.BadRequest(c, 14003, "unsupported transfer version")
		case errors.Is(err, service.ErrTransferMissingField):
			response.BadRequest(c, 14002, "transfer token is missing roster data")
		case errors.Is(err, service.ErrTransferMalformed):
			response.BadRequest(c, 14001, "transfer token is malformed")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
