// Package collaborator defines the text-generation capabilities the service
// consumes, a simulated backend for them and a Client that never fails.
package collaborator

import (
	"context"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

// Action is the audit recommendation.
type Action string

const (
	ActionNone  Action = "none"
	ActionWarn  Action = "warn"
	ActionBlock Action = "block"
)

func (a Action) valid() bool {
	return a == ActionNone || a == ActionWarn || a == ActionBlock
}

// Moderation is the verdict on an announcement.
type Moderation struct {
	Authorized bool   `json:"authorized"`
	Reason     string `json:"reason"`
}

// Audit is the financial narrative for one identity.
type Audit struct {
	Message     string `json:"message"`
	PaymentLink string `json:"paymentLink,omitempty"`
	Action      Action `json:"action"`
}

// StorageHealth is the storage diagnostic report.
type StorageHealth struct {
	HealthScore      int    `json:"healthScore"`
	Recommendations  string `json:"recommendations"`
	PotentialSavings string `json:"potentialSavings"`
}

type Motivator interface {
	GenerateMotivation(ctx context.Context) (string, error)
}

type Moderator interface {
	Moderate(ctx context.Context, content string) (Moderation, error)
}

// FinancialAuditor narrates a payment situation. daysOffset is positive when
// the payment is late and negative while it is still ahead.
type FinancialAuditor interface {
	AuditFinancial(ctx context.Context, name string, role model.Role, daysOffset int) (Audit, error)
}

type StorageAnalyzer interface {
	AnalyzeStorageHealth(ctx context.Context, summary string) (StorageHealth, error)
}

// Backend bundles every capability.
type Backend interface {
	Motivator
	Moderator
	FinancialAuditor
	StorageAnalyzer
}
