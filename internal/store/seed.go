package store

import "github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"

// Seed returns the bootstrap roster used when nothing is stored yet.
func Seed() ([]model.Instructor, []model.Student) {
	instructors := []model.Instructor{{
		Identity: model.Identity{
			ID:            "t1",
			Name:          "Professor Carlos",
			Email:         "carlos@academia.com",
			Phone:         "11999999999",
			Password:      "123",
			Role:          model.RoleInstructor,
			Status:        model.StatusActive,
			PaymentStatus: model.PaymentPaid,
			Belt:          "Preta",
			IsVerified:    model.Bool(true),
		},
		StudentCount: 2,
	}}
	students := []model.Student{{
		Identity: model.Identity{
			ID:            "s1",
			Name:          "Ricardo Almeida",
			Email:         "ricardo@aluno.com",
			Phone:         "11888888888",
			Password:      "123",
			Role:          model.RoleStudent,
			Status:        model.StatusActive,
			PaymentStatus: model.PaymentPaid,
			Belt:          "Azul",
			IsVerified:    model.Bool(true),
		},
		TeacherID: "t1",
	}}
	return instructors, students
}
