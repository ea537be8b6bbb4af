package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
)

// TokenRevoker blacklists a session token until it would have expired.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service aggregates every service.
type Service struct {
	Auth       AuthService
	Roster     RosterService
	Feed       FeedService
	Audit      AuditService
	Billing    BillingService
	Transfer   TransferService
	Export     ExportService
	Motivation MotivationService
	Dashboard  DashboardService
	Notify     NotificationService
}

// NewService builds the aggregate. revoker may be nil when no Redis is
// configured; logout then only closes the session's relay.
func NewService(
	cfg *config.Config,
	st *store.Store,
	collab *collaborator.Client,
	hub *notify.Hub,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, st, hub, jwtMgr, revoker, logger),
		Roster:     NewRosterService(cfg, st, logger),
		Feed:       NewFeedService(st, collab, hub, logger),
		Audit:      NewAuditService(cfg, st, collab, hub, logger),
		Billing:    NewBillingService(cfg, st, logger),
		Transfer:   NewTransferService(cfg, st, logger),
		Export:     NewExportService(st, logger),
		Motivation: NewMotivationService(collab),
		Dashboard:  NewDashboardService(st, collab, logger),
		Notify:     NewNotificationService(hub),
	}
}
