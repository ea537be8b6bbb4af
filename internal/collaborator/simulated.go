package collaborator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

// Simulated answers every capability locally after a fixed delay.
type Simulated struct {
	delay        time.Duration
	blockedTerms []string
	now          func() time.Time
}

// NewSimulated creates a Simulated backend. Moderation rejects content that
// contains any of blockedTerms, case-insensitively.
func NewSimulated(delay time.Duration, blockedTerms []string) *Simulated {
	terms := make([]string, 0, len(blockedTerms))
	for _, t := range blockedTerms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return &Simulated{delay: delay, blockedTerms: terms, now: time.Now}
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GenerateMotivation returns the quote of the day.
func (s *Simulated) GenerateMotivation(ctx context.Context) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	return Quotes[s.now().YearDay()%len(Quotes)], nil
}

func (s *Simulated) Moderate(ctx context.Context, content string) (Moderation, error) {
	if err := s.wait(ctx); err != nil {
		return Moderation{}, err
	}
	lower := strings.ToLower(content)
	for _, term := range s.blockedTerms {
		if strings.Contains(lower, term) {
			return Moderation{
				Authorized: false,
				Reason:     fmt.Sprintf("Conteúdo vetado pelo conselho: o termo %q não é permitido no mural.", term),
			}, nil
		}
	}
	return Moderation{Authorized: true, Reason: "Aprovado pelo conselho federal."}, nil
}

func (s *Simulated) AuditFinancial(ctx context.Context, name string, role model.Role, daysOffset int) (Audit, error) {
	if err := s.wait(ctx); err != nil {
		return Audit{}, err
	}
	switch {
	case daysOffset > 5:
		return Audit{
			Message: fmt.Sprintf("%s (%s) está com %d dias de atraso. Finalização iminente: regularize para voltar ao tatame.", name, role, daysOffset),
			Action:  ActionBlock,
		}, nil
	case daysOffset > 0:
		return Audit{
			Message: fmt.Sprintf("%s (%s) está com %d dias de atraso. Ajuste a pegada antes da raspagem.", name, role, daysOffset),
			Action:  ActionWarn,
		}, nil
	default:
		return Audit{
			Message: fmt.Sprintf("%s (%s) vence em %d dias. Guarda fechada e finanças em dia.", name, role, -daysOffset),
			Action:  ActionNone,
		}, nil
	}
}

func (s *Simulated) AnalyzeStorageHealth(ctx context.Context, summary string) (StorageHealth, error) {
	if err := s.wait(ctx); err != nil {
		return StorageHealth{}, err
	}
	score := 100 - len(summary)/40
	if score < 60 {
		score = 60
	}
	return StorageHealth{
		HealthScore:      score,
		Recommendations:  "Base estável. Notas de auditoria antigas podem ser purgadas como quem limpa a pegada do adversário.",
		PotentialSavings: fmt.Sprintf("%dKB", len(summary)/8+1),
	}, nil
}
