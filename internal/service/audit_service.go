package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
)

// noDueOffset is the offset audited for identities without a due date.
const noDueOffset = -15

// AuditService runs the simulated financial audit and storage maintenance.
type AuditService interface {
	// RunAudit audits every instructor and student. A "block" verdict marks
	// the identity unpaid; every verdict's narrative is recorded. The session
	// that started the audit gets one completion notification.
	RunAudit(ctx context.Context, sessionID string) (*dto.AuditResponse, error)
	// DeepClean asks for a storage diagnostic and clears every audit note.
	DeepClean(ctx context.Context) (*dto.DeepCleanResponse, error)
}

type auditService struct {
	cfg    *config.Config
	store  *store.Store
	collab *collaborator.Client
	hub    *notify.Hub
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditService creates an AuditService.
func NewAuditService(cfg *config.Config, st *store.Store, collab *collaborator.Client, hub *notify.Hub, logger *zap.Logger) AuditService {
	return &auditService{cfg: cfg, store: st, collab: collab, hub: hub, logger: logger, now: time.Now}
}

type auditTarget struct {
	id   string
	name string
	role model.Role
	due  *int64
}

func (s *auditService) RunAudit(ctx context.Context, sessionID string) (*dto.AuditResponse, error) {
	snap := s.store.Snapshot()
	targets := make([]auditTarget, 0, len(snap.Instructors)+len(snap.Students))
	for _, in := range snap.Instructors {
		targets = append(targets, auditTarget{in.ID, in.Name, in.Role, in.DueDate})
	}
	for _, st := range snap.Students {
		targets = append(targets, auditTarget{st.ID, st.Name, st.Role, st.DueDate})
	}

	// in-flight verdicts are applied even if the caller goes away
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	if n := s.cfg.Audit.Concurrency; n > 0 {
		g.SetLimit(n)
	}

	now := s.now()
	results := make([]dto.AuditResult, len(targets))
	skipped := make([]bool, len(targets))
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			days := s.daysOffset(t.due, now)
			verdict := s.collab.AuditFinancial(gctx, t.name, t.role, days)

			_, err := s.store.PatchIdentity(gctx, t.id, func(id *model.Identity) {
				id.LastAIAudit = verdict.Message
				if verdict.Action == collaborator.ActionBlock {
					id.PaymentStatus = model.PaymentUnpaid
				}
			})
			if errors.Is(err, store.ErrIdentityNotFound) {
				s.logger.Warn("audited identity removed before update", zap.String("id", t.id))
				skipped[i] = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("audit %s: %w", t.id, err)
			}
			results[i] = dto.AuditResult{
				ID:         t.id,
				Name:       t.name,
				Role:       t.role.String(),
				DaysOffset: days,
				Action:     string(verdict.Action),
				Message:    verdict.Message,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("financial audit failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.AuditResponse{Results: make([]dto.AuditResult, 0, len(targets))}
	for i, r := range results {
		if skipped[i] {
			resp.Skipped++
			continue
		}
		resp.Audited++
		switch collaborator.Action(r.Action) {
		case collaborator.ActionBlock:
			resp.Blocked++
		case collaborator.ActionWarn:
			resp.Warned++
		}
		resp.Results = append(resp.Results, r)
	}

	if relay, ok := s.hub.Get(sessionID); ok {
		relay.Push(notify.Notification{
			Title:   "Auditoria Finalizada",
			Message: "A IA concluiu o escaneamento financeiro de toda a base.",
			Kind:    notify.KindSystem,
		})
	}
	s.logger.Info("financial audit finished",
		zap.Int("audited", resp.Audited),
		zap.Int("blocked", resp.Blocked),
		zap.Int("warned", resp.Warned),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// daysOffset is how many whole days past due the identity is; negative
// means the due date is still ahead.
func (s *auditService) daysOffset(due *int64, now time.Time) int {
	if due == nil {
		return noDueOffset
	}
	return wholeDays(now.Sub(time.UnixMilli(*due)))
}

func (s *auditService) DeepClean(ctx context.Context) (*dto.DeepCleanResponse, error) {
	snap := s.store.Snapshot()
	summary := fmt.Sprintf(
		"Registros: %d (professores: %d, alunos: %d). Comunicados: %d. Notas de auditoria acumuladas: %d.",
		len(snap.Instructors)+len(snap.Students),
		len(snap.Instructors), len(snap.Students),
		len(snap.Announcements),
		countAuditNotes(snap),
	)
	report := s.collab.AnalyzeStorageHealth(ctx, summary)

	cleared, err := s.store.ClearAuditNotes(ctx)
	if err != nil {
		s.logger.Error("failed to clear audit notes", zap.Error(err))
		return nil, err
	}
	s.logger.Info("deep clean finished", zap.Int("health_score", report.HealthScore), zap.Int("cleared", cleared))

	return &dto.DeepCleanResponse{
		Report: dto.StorageReport{
			HealthScore:      report.HealthScore,
			Recommendations:  report.Recommendations,
			PotentialSavings: report.PotentialSavings,
		},
		ClearedNotes: cleared,
	}, nil
}

func countAuditNotes(snap store.Snapshot) int {
	n := 0
	for _, in := range snap.Instructors {
		if in.LastAIAudit != "" {
			n++
		}
	}
	for _, st := range snap.Students {
		if st.LastAIAudit != "" {
			n++
		}
	}
	return n
}
