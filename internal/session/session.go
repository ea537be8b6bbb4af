// Package session re-resolves an authenticated identity against the current
// roster and decides whether it may use the application.
package session

import (
	"fmt"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

// AdministratorID is the id of the synthetic administrator identity.
const AdministratorID = "admin-1"

// Record is a session's view of an identity.
type Record = model.Account

// Administrator builds the synthetic administrator record. It is never
// stored and is always active and paid.
func Administrator(name, email string) Record {
	return Record{Identity: model.Identity{
		ID:            AdministratorID,
		Name:          name,
		Email:         email,
		Role:          model.RoleAdministrator,
		Status:        model.StatusActive,
		PaymentStatus: model.PaymentPaid,
		IsVerified:    model.Bool(true),
	}}
}

// Resolve returns the live record for stale by searching instructors, then
// students, then the administrator placeholder. When nothing matches, stale
// is returned unchanged.
func Resolve(stale Record, instructors []model.Instructor, students []model.Student) Record {
	for _, in := range instructors {
		if in.ID == stale.ID {
			return in.Account()
		}
	}
	for _, st := range students {
		if st.ID == stale.ID {
			return st.Account()
		}
	}
	if stale.ID == AdministratorID {
		return Administrator(stale.Name, stale.Email)
	}
	return stale
}

// Reason is why a session is blocked.
type Reason string

const (
	ReasonNone   Reason = ""
	ReasonPaused Reason = "paused"
	ReasonUnpaid Reason = "unpaid"
)

const (
	PausedMessage  = "Your account has been temporarily suspended by the federation administration."
	PendingMessage = "Financial pendency detected in the system."
)

// Decision is the access gate outcome.
type Decision struct {
	Blocked bool   `json:"blocked"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Evaluate applies the access gate. The administrator is never blocked; for
// everyone else a paused status or an unpaid balance blocks, paused first.
func Evaluate(r Record) Decision {
	if r.Role == model.RoleAdministrator {
		return Decision{}
	}
	switch {
	case r.Status == model.StatusPaused:
		return Decision{Blocked: true, Reason: ReasonPaused, Message: PausedMessage}
	case r.PaymentStatus == model.PaymentUnpaid:
		msg := r.LastAIAudit
		if msg == "" {
			msg = PendingMessage
		}
		return Decision{Blocked: true, Reason: ReasonUnpaid, Message: msg}
	}
	return Decision{}
}

// Handlers holds one callback per role.
type Handlers[T any] struct {
	Administrator func() (T, error)
	Instructor    func() (T, error)
	Student       func() (T, error)
}

// Dispatch runs the handler for role. Every role must have a handler.
func Dispatch[T any](role model.Role, h Handlers[T]) (T, error) {
	var zero T
	switch role {
	case model.RoleAdministrator:
		return h.Administrator()
	case model.RoleInstructor:
		return h.Instructor()
	case model.RoleStudent:
		return h.Student()
	}
	return zero, fmt.Errorf("dispatch: unknown role %v", role)
}
