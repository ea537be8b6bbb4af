package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/redis"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// RateKey names the bucket a request is counted in.
type RateKey func(c *gin.Context) string

// ByClientIP counts per client address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByAccount counts per email in the JSON body, whatever address the attempts
// come from. Requests without an email fall back to ByClientIP. The body is
// left readable for the handler.
func ByAccount(c *gin.Context) string {
	if c.Request.Body == nil {
		return ByClientIP(c)
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ByClientIP(c)
	}

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil || body.Email == "" {
		return ByClientIP(c)
	}
	return "account:" + model.NormalizeEmail(body.Email)
}

// RateLimit allows limit requests per key and route in a sliding window.
// Without Redis, or when Redis fails, requests pass.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, key RateKey) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		bucket := "rate_limit:" + c.FullPath() + ":" + key(c)
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), bucket, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", retryAfter)
			response.Error(c, http.StatusTooManyRequests, 10004, "too many attempts, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
