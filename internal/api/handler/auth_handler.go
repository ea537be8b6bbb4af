package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// AuthHandler serves login, verification and the session endpoint.
type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Verify POST /api/v1/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.authSvc.ConfirmVerification(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// ResendVerification POST /api/v1/auth/verify/resend
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	if err := h.authSvc.ResendVerification(c.Request.Context(), &req); err != nil {
		handleAuthError(c, err)
		return
	}

	response.Accepted(c, nil)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Session GET /api/v1/session
//
// Reports the live record and the gate decision without enforcing it, so a
// blocked client can render the reason.
func (h *AuthHandler) Session(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	stale, ok := MustGetSession(c)
	if !ok {
		return
	}

	response.OK(c, h.authSvc.Session(stale, claims.ID))
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "invalid e-mail or password")
	case errors.Is(err, service.ErrAccountNotFound):
		response.NotFound(c, 11002, "no account registered with this e-mail")
	case errors.Is(err, service.ErrVerificationPending):
		response.Forbidden(c, 11003, "account verification pending")
	default:
		response.InternalError(c)
	}
}
