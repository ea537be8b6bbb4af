package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

const calendarMIME = "text/calendar; charset=utf-8"

// BillingHandler serves payment regularisation and due-date calendars.
type BillingHandler struct {
	svc service.BillingService
}

func NewBillingHandler(svc service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// Regularize POST /api/v1/billing/regularize
//
// Answers 202 right away; the payment flips to paid once the gateway
// delay has passed.
func (h *BillingHandler) Regularize(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.RegularizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.Regularize(c.Request.Context(), caller, &req)
	if err != nil {
		handleBillingError(c, err)
		return
	}

	response.Accepted(c, result)
}

// DueCalendar GET /api/v1/billing/calendar
func (h *BillingHandler) DueCalendar(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}

	data, filename, err := h.svc.DueCalendar(c.Request.Context(), caller)
	if err != nil {
		handleBillingError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, calendarMIME, data)
}

func handleBillingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		response.BadRequest(c, 15001, "payment not confirmed")
	case errors.Is(err, service.ErrNoDueDates):
		response.NotFound(c, 15002, "no due dates to export")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 15003, "operation not allowed for this role")
	default:
		response.InternalError(c)
	}
}
