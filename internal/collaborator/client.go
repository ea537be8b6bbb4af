package collaborator

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

var errInvalidResult = errors.New("collaborator returned an invalid result")

// Client calls a Backend under a timeout and substitutes the fixed
// fallbacks on any failure. Its methods never return errors.
type Client struct {
	backend Backend
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient wraps backend. A non-positive timeout disables the deadline.
func NewClient(backend Backend, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{backend: backend, timeout: timeout, logger: logger}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) fallback(op string, err error) {
	c.logger.Warn("collaborator failed, using fallback", zap.String("op", op), zap.Error(err))
}

// Motivation returns a short motivational quote.
func (c *Client) Motivation(ctx context.Context) string {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	text, err := c.backend.GenerateMotivation(ctx)
	text = strings.TrimSpace(strings.ReplaceAll(text, `"`, ""))
	if err == nil && text == "" {
		err = errInvalidResult
	}
	if err != nil {
		c.fallback("motivation", err)
		return FallbackMotivation()
	}
	return text
}

// Moderate judges announcement content.
func (c *Client) Moderate(ctx context.Context, content string) Moderation {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	m, err := c.backend.Moderate(ctx, content)
	if err != nil {
		c.fallback("moderate", err)
		return FallbackModeration()
	}
	return m
}

// AuditFinancial narrates one identity's payment situation.
func (c *Client) AuditFinancial(ctx context.Context, name string, role model.Role, daysOffset int) Audit {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	a, err := c.backend.AuditFinancial(ctx, name, role, daysOffset)
	if err == nil && (!a.Action.valid() || strings.TrimSpace(a.Message) == "") {
		err = errInvalidResult
	}
	if err != nil {
		c.fallback("audit", err)
		return FallbackAudit(daysOffset)
	}
	return a
}

// AnalyzeStorageHealth diagnoses the stored data described by summary.
func (c *Client) AnalyzeStorageHealth(ctx context.Context, summary string) StorageHealth {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	h, err := c.backend.AnalyzeStorageHealth(ctx, summary)
	if err == nil && (h.HealthScore < 0 || h.HealthScore > 100) {
		err = errInvalidResult
	}
	if err != nil {
		c.fallback("storage_health", err)
		return FallbackStorageHealth()
	}
	return h
}
