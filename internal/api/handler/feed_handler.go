package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// FeedHandler serves the announcement feed.
type FeedHandler struct {
	svc service.FeedService
}

func NewFeedHandler(svc service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// List GET /api/v1/announcements
func (h *FeedHandler) List(c *gin.Context) {
	viewer, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), viewer)
	if err != nil {
		handleFeedError(c, err)
		return
	}

	response.OK(c, result)
}

// Post POST /api/v1/announcements
func (h *FeedHandler) Post(c *gin.Context) {
	author, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.PostAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.Post(c.Request.Context(), author, &req)
	if err != nil {
		handleFeedError(c, err)
		return
	}

	response.Created(c, result)
}

func handleFeedError(c *gin.Context, err error) {
	var rejected *service.ModerationRejectedError
	switch {
	case errors.As(err, &rejected):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 13002,
			"announcement rejected by moderation", rejected.Reason)
	case errors.Is(err, service.ErrEmptyContent):
		response.BadRequest(c, 13001, "announcement content is empty")
	case errors.Is(err, service.ErrModerationRejected):
		response.Error(c, http.StatusUnprocessableEntity, 13002, "announcement rejected by moderation")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 13003, "only instructors can post announcements")
	default:
		response.InternalError(c)
	}
}
