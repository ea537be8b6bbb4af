package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/redis"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// Context keys set by the auth chain.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxClaims   = "claims"
	CtxSession  = "session"
	CtxDecision = "decision"
)

// JWTAuth validates the Bearer access token and stores the identity snapshot
// it carries as the session record. rdb may be nil, in which case revoked
// tokens are not checked.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		role, err := model.ParseRole(claims.Role)
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			// redis errors fail open
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "session ended")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, role)
		c.Set(CtxClaims, claims)
		c.Set(CtxSession, snapshot(claims, role))

		c.Next()
	}
}

// snapshot rebuilds the record authenticated at login, access state included.
func snapshot(claims *jwt.Claims, role model.Role) session.Record {
	rec := session.Record{
		Identity: model.Identity{
			ID:            claims.UserID,
			Name:          claims.Name,
			Email:         claims.Email,
			Role:          role,
			Status:        model.Status(claims.Status),
			PaymentStatus: model.PaymentStatus(claims.PaymentStatus),
			LastAIAudit:   claims.LastAIAudit,
		},
		TeacherID: claims.TeacherID,
	}
	if rec.Status == "" {
		rec.Status = model.StatusActive
	}
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = model.PaymentPaid
	}
	return rec
}

// SessionResolver re-reads a session against live state.
type SessionResolver interface {
	Resolve(stale session.Record) (session.Record, session.Decision)
}

// AccessGate replaces the token snapshot with the live record and stops
// blocked sessions with 403 / 10006. Must run after JWTAuth.
func AccessGate(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(CtxSession)
		stale, ok := v.(session.Record)
		if !exists || !ok {
			response.Unauthorized(c, 10002, "unauthenticated")
			c.Abort()
			return
		}

		live, decision := resolver.Resolve(stale)
		c.Set(CtxSession, live)
		c.Set(CtxRole, live.Role)
		c.Set(CtxDecision, decision)

		if decision.Blocked {
			response.ErrorWithData(c, http.StatusForbidden, 10006, decision.Message, gin.H{
				"reason":  decision.Reason,
				"message": decision.Message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleAuth only lets the listed roles through.
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, 10002, "unauthenticated")
			c.Abort()
			return
		}

		userRole, _ := v.(model.Role)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "access denied")
		c.Abort()
	}
}
