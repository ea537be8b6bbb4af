package handler

import "github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth         *AuthHandler
	Roster       *RosterHandler
	Feed         *FeedHandler
	Notification *NotificationHandler
	Transfer     *TransferHandler
	Audit        *AuditHandler
	Billing      *BillingHandler
	Export       *ExportHandler
	Dashboard    *DashboardHandler
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Roster:       NewRosterHandler(svc.Roster),
		Feed:         NewFeedHandler(svc.Feed),
		Notification: NewNotificationHandler(svc.Notify),
		Transfer:     NewTransferHandler(svc.Transfer),
		Audit:        NewAuditHandler(svc.Audit),
		Billing:      NewBillingHandler(svc.Billing),
		Export:       NewExportHandler(svc.Export),
		Dashboard:    NewDashboardHandler(svc.Dashboard, svc.Motivation),
	}
}
