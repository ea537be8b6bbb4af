package dto

import "github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"

// ── dashboard ──

// DashboardResponse exactly one of the role sections is set.
type DashboardResponse struct {
	Role       string               `json:"role"`
	Admin      *AdminDashboard      `json:"admin,omitempty"`
	Instructor *InstructorDashboard `json:"instructor,omitempty"`
	Student    *StudentDashboard    `json:"student,omitempty"`
}

// AdminDashboard federation overview.
type AdminDashboard struct {
	Stats       RosterStats       `json:"stats"`
	Instructors []AccountResponse `json:"instructors"`
	Students    []AccountResponse `json:"students"`
}

// InstructorDashboard class overview.
type InstructorDashboard struct {
	Profile       AccountResponse      `json:"profile"`
	Students      []AccountResponse    `json:"students"`
	Announcements []model.Announcement `json:"announcements"`
}

// StudentDashboard personal overview.
type StudentDashboard struct {
	Profile       AccountResponse      `json:"profile"`
	Instructor    string               `json:"instructor,omitempty"`
	Announcements []model.Announcement `json:"announcements"`
	Motivation    string               `json:"motivation"`
	DaysToDue     int                  `json:"daysToDue"`
	Unpaid        bool                 `json:"unpaid"`
}
