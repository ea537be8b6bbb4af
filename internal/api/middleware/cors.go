package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins plus the origin of shareBase, where
// transfer share links open. Preflights from any other origin get 403.
func CORS(allowOrigins []string, shareBase string) gin.HandlerFunc {
	originsMap := make(map[string]bool, len(allowOrigins)+1)
	for _, o := range allowOrigins {
		originsMap[strings.TrimRight(o, "/")] = true
	}
	if u, err := url.Parse(shareBase); err == nil && u.Scheme != "" && u.Host != "" {
		originsMap[u.Scheme+"://"+u.Host] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := originsMap[origin]

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			// roster exports are downloaded by name
			c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, Retry-After")
			c.Header("Access-Control-Max-Age", "86400")
		}
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			if origin != "" && !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
