package service

import (
	"context"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
)

// NotificationService reads and dismisses the alerts of one session.
type NotificationService interface {
	List(ctx context.Context, sessionID string) []notify.Notification
	// Dismiss reports whether id was still active. Dismissing an expired
	// or unknown id is a no-op.
	Dismiss(ctx context.Context, sessionID, id string) bool
}

type notificationService struct {
	hub *notify.Hub
}

func NewNotificationService(hub *notify.Hub) NotificationService {
	return &notificationService{hub: hub}
}

func (s *notificationService) List(_ context.Context, sessionID string) []notify.Notification {
	relay, ok := s.hub.Get(sessionID)
	if !ok {
		return []notify.Notification{}
	}
	return relay.Active()
}

func (s *notificationService) Dismiss(_ context.Context, sessionID, id string) bool {
	relay, ok := s.hub.Get(sessionID)
	return ok && relay.Dismiss(id)
}
