package model

import (
	"strings"
	"time"
)

// Status is the account state.
type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	// StatusDebt is reserved. No operation produces it and nothing checks it.
	StatusDebt Status = "debt"
)

// PaymentStatus is independent of Status; either can block access.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Identity is the login-capable shape shared by instructors and students.
// Field names match the persisted JSON records.
type Identity struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	Password      string        `json:"password,omitempty"`
	Role          Role          `json:"role"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Belt          string        `json:"belt,omitempty"`
	DueDate       *int64        `json:"dueDate,omitempty"` // epoch millis
	LastAIAudit   string        `json:"lastAiAudit,omitempty"`
	IsVerified    *bool         `json:"isVerified,omitempty"`
}

// Verified reports whether the e-mail verification has been confirmed.
// A missing flag counts as pending.
func (i Identity) Verified() bool {
	return i.IsVerified != nil && *i.IsVerified
}

// Due returns the payment due date, if one is set.
func (i Identity) Due() (time.Time, bool) {
	if i.DueDate == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*i.DueDate), true
}

// MatchesEmail compares login keys case-insensitively.
func (i Identity) MatchesEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Email), NormalizeEmail(email))
}

// NormalizeEmail lower-cases and trims a login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Instructor is a PROFESSOR record.
type Instructor struct {
	Identity
	// StudentCount is advisory display data; enrolment and deletion never
	// recompute it.
	StudentCount int `json:"studentCount"`
}

// Student is an ALUNO record. TeacherID is never checked against the
// instructor list; an orphaned student is still a valid record.
type Student struct {
	Identity
	TeacherID string `json:"teacherId,omitempty"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Millis returns t as a pointer to epoch milliseconds.
func Millis(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}

// Account is the role-agnostic view of a login-capable record. TeacherID is
// empty for anything but students.
type Account struct {
	Identity
	TeacherID string `json:"teacherId,omitempty"`
}

// Account returns the instructor as an Account.
func (i Instructor) Account() Account {
	return Account{Identity: i.Identity}
}

// Account returns the student as an Account.
func (s Student) Account() Account {
	return Account{Identity: s.Identity, TeacherID: s.TeacherID}
}

// Clone copies the identity, including the values behind optional fields.
func (i Identity) Clone() Identity {
	out := i
	if i.DueDate != nil {
		v := *i.DueDate
		out.DueDate = &v
	}
	if i.IsVerified != nil {
		v := *i.IsVerified
		out.IsVerified = &v
	}
	return out
}
