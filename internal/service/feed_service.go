package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/feed"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
)

var (
	ErrEmptyContent       = errors.New("announcement content is empty")
	ErrModerationRejected = errors.New("announcement rejected by moderation")
)

// ModerationRejectedError carries the moderator's reason.
type ModerationRejectedError struct {
	Reason string
}

func (e *ModerationRejectedError) Error() string {
	if e.Reason == "" {
		return ErrModerationRejected.Error()
	}
	return ErrModerationRejected.Error() + ": " + e.Reason
}

func (e *ModerationRejectedError) Unwrap() error { return ErrModerationRejected }

// FeedService posts and reads announcements.
type FeedService interface {
	// Post moderates content, prepends it to the feed and notifies the open
	// sessions of the author's students.
	Post(ctx context.Context, author session.Record, req *dto.PostAnnouncementRequest) (*model.Announcement, error)
	List(ctx context.Context, viewer session.Record) ([]model.Announcement, error)
}

type feedService struct {
	store  *store.Store
	collab *collaborator.Client
	hub    *notify.Hub
	logger *zap.Logger
}

// NewFeedService creates a FeedService.
func NewFeedService(st *store.Store, collab *collaborator.Client, hub *notify.Hub, logger *zap.Logger) FeedService {
	return &feedService{store: st, collab: collab, hub: hub, logger: logger}
}

func (s *feedService) Post(ctx context.Context, author session.Record, req *dto.PostAnnouncementRequest) (*model.Announcement, error) {
	if author.Role != model.RoleInstructor {
		return nil, ErrNoPermission
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	verdict := s.collab.Moderate(ctx, content)
	if !verdict.Authorized {
		s.logger.Info("announcement rejected", zap.String("teacher_id", author.ID), zap.String("reason", verdict.Reason))
		return nil, &ModerationRejectedError{Reason: verdict.Reason}
	}

	a, err := s.store.PrependAnnouncement(ctx, model.Announcement{
		TeacherID:  author.ID,
		Content:    content,
		AuthorName: author.Name,
	})
	if err != nil {
		s.logger.Error("failed to store announcement", zap.Error(err))
		return nil, err
	}

	notified := s.notifyStudents(a)
	s.logger.Info("announcement posted",
		zap.String("id", a.ID),
		zap.String("teacher_id", a.TeacherID),
		zap.Int("notified_sessions", notified),
	)
	return &a, nil
}

func (s *feedService) notifyStudents(a model.Announcement) int {
	class := make(map[string]bool)
	for _, st := range s.store.Students() {
		if st.TeacherID == a.TeacherID {
			class[st.ID] = true
		}
	}
	if len(class) == 0 {
		return 0
	}

	n := notify.Notification{
		Title:   "Novo Comunicado: Mestre " + a.AuthorName,
		Message: a.Content,
		Kind:    notify.KindAnnouncement,
	}
	count := 0
	s.hub.Each(func(_, identityID string, r *notify.Relay) {
		if class[identityID] {
			r.Push(n)
			count++
		}
	})
	return count
}

func (s *feedService) List(ctx context.Context, viewer session.Record) ([]model.Announcement, error) {
	all := s.store.Announcements()
	return session.Dispatch(viewer.Role, session.Handlers[[]model.Announcement]{
		Administrator: func() ([]model.Announcement, error) {
			if all == nil {
				all = []model.Announcement{}
			}
			feed.Newest(all)
			return all, nil
		},
		Instructor: func() ([]model.Announcement, error) {
			return feed.ForInstructor(all, viewer.ID), nil
		},
		Student: func() ([]model.Announcement, error) {
			return feed.Visible(all, viewer), nil
		},
	})
}
