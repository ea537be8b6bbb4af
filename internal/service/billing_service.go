package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
)

var (
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrNoDueDates          = errors.New("no due dates to export")
)

// RegularizedNote is recorded as the audit note once a payment clears.
const RegularizedNote = "Pagamento confirmado via Link Neural. Sua guarda está sólida."

// BillingService handles payment regularisation and due-date calendars.
type BillingService interface {
	// Regularize schedules the payment confirmation of the calling student.
	// The update runs after the gateway delay, detached from ctx.
	Regularize(ctx context.Context, caller session.Record, req *dto.RegularizeRequest) (*dto.RegularizeResponse, error)
	// DueCalendar renders the due dates visible to caller as an iCalendar.
	DueCalendar(ctx context.Context, caller session.Record) ([]byte, string, error)
	// Drain waits for pending regularisations.
	Drain()
}

type billingService struct {
	cfg     *config.Config
	store   *store.Store
	logger  *zap.Logger
	now     func() time.Time
	pending sync.WaitGroup
}

// NewBillingService creates a BillingService.
func NewBillingService(cfg *config.Config, st *store.Store, logger *zap.Logger) BillingService {
	return &billingService{cfg: cfg, store: st, logger: logger, now: time.Now}
}

func (s *billingService) Regularize(ctx context.Context, caller session.Record, req *dto.RegularizeRequest) (*dto.RegularizeResponse, error) {
	if caller.Role != model.RoleStudent {
		return nil, ErrNoPermission
	}
	if !req.Confirmed {
		return nil, ErrPaymentNotConfirmed
	}
	if _, ok := s.store.FindStudent(caller.ID); !ok {
		return nil, ErrStudentNotFound
	}

	delay := s.cfg.Billing.GatewayDelay
	id := caller.ID
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		time.Sleep(delay)
		_, err := s.store.PatchIdentity(context.Background(), id, func(i *model.Identity) {
			i.PaymentStatus = model.PaymentPaid
			i.LastAIAudit = RegularizedNote
		})
		if err != nil {
			s.logger.Warn("payment regularisation dropped", zap.String("id", id), zap.Error(err))
			return
		}
		s.logger.Info("payment regularised", zap.String("id", id))
	}()

	return &dto.RegularizeResponse{Status: "processing", CompletesInMs: delay.Milliseconds()}, nil
}

func (s *billingService) Drain() {
	s.pending.Wait()
}

type dueEntry struct {
	id, name string
	due      time.Time
}

func (s *billingService) DueCalendar(ctx context.Context, caller session.Record) ([]byte, string, error) {
	entries, err := session.Dispatch(caller.Role, session.Handlers[[]dueEntry]{
		Administrator: func() ([]dueEntry, error) {
			snap := s.store.Snapshot()
			var out []dueEntry
			for _, in := range snap.Instructors {
				out = appendDue(out, in.Identity)
			}
			for _, st := range snap.Students {
				out = appendDue(out, st.Identity)
			}
			return out, nil
		},
		Instructor: func() ([]dueEntry, error) {
			var out []dueEntry
			if in, ok := s.store.FindInstructor(caller.ID); ok {
				out = appendDue(out, in.Identity)
			}
			for _, st := range s.store.Students() {
				if st.TeacherID == caller.ID {
					out = appendDue(out, st.Identity)
				}
			}
			return out, nil
		},
		Student: func() ([]dueEntry, error) {
			var out []dueEntry
			if st, ok := s.store.FindStudent(caller.ID); ok {
				out = appendDue(out, st.Identity)
			}
			return out, nil
		},
	})
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrNoDueDates
	}

	now := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//BJJ Federation//Due Dates//PT")
	for _, e := range entries {
		ev := cal.AddEvent(fmt.Sprintf("due-%s@bjj-federation", e.id))
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(e.due)
		ev.SetAllDayEndAt(e.due.AddDate(0, 0, 1))
		ev.SetSummary("Vencimento da mensalidade: " + e.name)
		ev.SetDescription("Regularize sua mensalidade para manter o acesso à federação.")
	}

	filename := fmt.Sprintf("vencimentos_%s.ics", now.Format("20060102"))
	return []byte(cal.Serialize()), filename, nil
}

func appendDue(out []dueEntry, id model.Identity) []dueEntry {
	if due, ok := id.Due(); ok {
		out = append(out, dueEntry{id: id.ID, name: id.Name, due: due})
	}
	return out
}
