package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/feed"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
)

// defaultDaysToDue is shown to students without a due date.
const defaultDaysToDue = 15

// DashboardService builds the role-specific home screen.
type DashboardService interface {
	Get(ctx context.Context, viewer session.Record) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	store  *store.Store
	collab *collaborator.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(st *store.Store, collab *collaborator.Client, logger *zap.Logger) DashboardService {
	return &dashboardService{store: st, collab: collab, logger: logger, now: time.Now}
}

func (s *dashboardService) Get(ctx context.Context, viewer session.Record) (*dto.DashboardResponse, error) {
	snap := s.store.Snapshot()
	resp := &dto.DashboardResponse{Role: viewer.Role.String()}

	_, err := session.Dispatch(viewer.Role, session.Handlers[struct{}]{
		Administrator: func() (struct{}, error) {
			resp.Admin = s.admin(snap)
			return struct{}{}, nil
		},
		Instructor: func() (struct{}, error) {
			resp.Instructor = s.instructor(snap, viewer)
			return struct{}{}, nil
		},
		Student: func() (struct{}, error) {
			resp.Student = s.student(ctx, snap, viewer)
			return struct{}{}, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *dashboardService) admin(snap store.Snapshot) *dto.AdminDashboard {
	enrolled := enrolledByTeacher(snap.Students)
	out := &dto.AdminDashboard{
		Stats:       rosterStats(snap.Instructors, snap.Students),
		Instructors: make([]dto.AccountResponse, 0, len(snap.Instructors)),
		Students:    make([]dto.AccountResponse, 0, len(snap.Students)),
	}
	for _, in := range snap.Instructors {
		out.Instructors = append(out.Instructors, toInstructorResponse(in, enrolled[in.ID]))
	}
	for _, st := range snap.Students {
		out.Students = append(out.Students, toStudentResponse(st))
	}
	return out
}

func (s *dashboardService) instructor(snap store.Snapshot, viewer session.Record) *dto.InstructorDashboard {
	out := &dto.InstructorDashboard{
		Profile:       toAccountResponse(viewer),
		Students:      []dto.AccountResponse{},
		Announcements: feed.ForInstructor(snap.Announcements, viewer.ID),
	}
	for _, st := range snap.Students {
		if st.TeacherID == viewer.ID {
			out.Students = append(out.Students, toStudentResponse(st))
		}
	}
	return out
}

func (s *dashboardService) student(ctx context.Context, snap store.Snapshot, viewer session.Record) *dto.StudentDashboard {
	out := &dto.StudentDashboard{
		Profile:       toAccountResponse(viewer),
		Announcements: feed.Visible(snap.Announcements, viewer),
		Motivation:    s.collab.Motivation(ctx),
		DaysToDue:     defaultDaysToDue,
		Unpaid:        viewer.PaymentStatus == model.PaymentUnpaid,
	}
	for _, in := range snap.Instructors {
		if in.ID == viewer.TeacherID {
			out.Instructor = in.Name
			break
		}
	}
	if due, ok := viewer.Due(); ok {
		out.DaysToDue = wholeDays(due.Sub(s.now()))
	}
	return out
}
