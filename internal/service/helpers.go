package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"time"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

// Shared business errors.
var (
	ErrNoPermission = errors.New("operation not allowed for this role")
)

const (
	keyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	keyLength   = 8

	day = 24 * time.Hour
)

// generateKey returns a random access key without look-alike characters.
func generateKey(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = keyAlphabet[n.Int64()]
	}
	return string(out), nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// wholeDays is floor(d / 24h).
func wholeDays(d time.Duration) int {
	return int(math.Floor(float64(d) / float64(day)))
}

func toAccountResponse(acc model.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:            acc.ID,
		Name:          acc.Name,
		Email:         acc.Email,
		Phone:         acc.Phone,
		Role:          acc.Role.String(),
		Status:        string(acc.Status),
		PaymentStatus: string(acc.PaymentStatus),
		Belt:          acc.Belt,
		DueDate:       acc.DueDate,
		LastAIAudit:   acc.LastAIAudit,
		IsVerified:    acc.Verified(),
		TeacherID:     acc.TeacherID,
	}
}

func toInstructorResponse(in model.Instructor, enrolled int) dto.AccountResponse {
	resp := toAccountResponse(in.Account())
	count := in.StudentCount
	resp.StudentCount = &count
	resp.EnrolledCount = &enrolled
	return resp
}

func toStudentResponse(st model.Student) dto.AccountResponse {
	return toAccountResponse(st.Account())
}

// enrolledByTeacher counts students per teacherId.
func enrolledByTeacher(students []model.Student) map[string]int {
	m := make(map[string]int)
	for _, st := range students {
		if st.TeacherID != "" {
			m[st.TeacherID]++
		}
	}
	return m
}

func rosterStats(instructors []model.Instructor, students []model.Student) dto.RosterStats {
	stats := dto.RosterStats{Instructors: len(instructors), Students: len(students)}
	for _, in := range instructors {
		if in.Status == model.StatusActive {
			stats.ActiveInstructors++
		}
	}
	for _, st := range students {
		switch st.Status {
		case model.StatusActive:
			stats.ActiveStudents++
		case model.StatusPaused:
			stats.PausedStudents++
		}
		if st.PaymentStatus == model.PaymentUnpaid {
			stats.UnpaidStudents++
		}
	}
	return stats
}
