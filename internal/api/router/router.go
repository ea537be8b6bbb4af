package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/api/handler"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/api/middleware"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/redis"
)

const (
	authRateLimit    = 10
	accountRateLimit = 5
	authRateWindow   = time.Minute
)

// Setup builds the gin engine. rdb may be nil.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	resolver middleware.SessionResolver,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins, cfg.Server.BaseURL))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdministrator)
	staff := middleware.RoleAuth(model.RoleAdministrator, model.RoleInstructor)
	instructor := middleware.RoleAuth(model.RoleInstructor)
	student := middleware.RoleAuth(model.RoleStudent)

	v1 := r.Group("/api/v1")
	{
		// public
		perIP := middleware.RateLimit(rdb, authRateLimit, authRateWindow, middleware.ByClientIP)
		perAccount := middleware.RateLimit(rdb, accountRateLimit, authRateWindow, middleware.ByAccount)
		auth := v1.Group("/auth", perIP, perAccount)
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/verify", h.Auth.Verify)
			auth.POST("/verify/resend", h.Auth.ResendVerification)
		}

		authenticated := v1.Group("")
		authenticated.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// reachable while blocked
			authenticated.GET("/session", h.Auth.Session)
			authenticated.POST("/auth/logout", h.Auth.Logout)

			gated := authenticated.Group("")
			gated.Use(middleware.AccessGate(resolver))
			{
				gated.GET("/dashboard", h.Dashboard.Get)
				gated.GET("/motivation", h.Dashboard.Motivation)

				gated.GET("/notifications", h.Notification.List)
				gated.DELETE("/notifications/:id", h.Notification.Dismiss)

				instructors := gated.Group("/instructors", admin)
				{
					instructors.GET("", h.Roster.ListInstructors)
					instructors.POST("", h.Roster.CreateInstructor)
					instructors.PUT("/:id", h.Roster.UpdateInstructor)
					instructors.PUT("/:id/status", h.Roster.ToggleInstructorStatus)
					instructors.DELETE("/:id", h.Roster.DeleteInstructor)
				}
				gated.GET("/stats", admin, h.Roster.Stats)

				students := gated.Group("/students", staff)
				{
					students.GET("", h.Roster.ListStudents)
					students.POST("", h.Roster.CreateStudent)
					students.POST("/import", h.Roster.ImportStudents)
					students.PUT("/:id", h.Roster.UpdateStudent)
					students.PUT("/:id/status", h.Roster.ToggleStudentStatus)
					students.DELETE("/:id", h.Roster.DeleteStudent)
				}

				gated.GET("/announcements", h.Feed.List)
				gated.POST("/announcements", instructor, h.Feed.Post)

				gated.GET("/transfer/export", admin, h.Transfer.Export)
				gated.POST("/transfer/import", admin, h.Transfer.Import)
				gated.POST("/audit", admin, h.Audit.Run)
				gated.POST("/maintenance/deep-clean", admin, h.Audit.DeepClean)
				gated.GET("/export/roster", admin, h.Export.ExportRoster)

				gated.POST("/billing/regularize", student, h.Billing.Regularize)
				gated.GET("/billing/calendar", h.Billing.DueCalendar)
			}
		}
	}

	return r
}
