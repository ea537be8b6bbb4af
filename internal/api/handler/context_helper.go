package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/api/middleware"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// MustGetClaims extracts the token claims set by JWTAuth. On failure it
// writes a 401 and the caller should return.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "unauthenticated")
		return nil, false
	}
	return claims, true
}

// MustGetSession extracts the session record. Behind AccessGate it is the
// live record; otherwise it is the token snapshot.
func MustGetSession(c *gin.Context) (session.Record, bool) {
	v, exists := c.Get(middleware.CtxSession)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return session.Record{}, false
	}
	rec, ok := v.(session.Record)
	if !ok || rec.ID == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return session.Record{}, false
	}
	return rec, true
}
