package dto

// ── roster ──

// AccountResponse is an identity without its credential.
type AccountResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	Belt          string `json:"belt,omitempty"`
	DueDate       *int64 `json:"dueDate,omitempty"`
	LastAIAudit   string `json:"lastAiAudit,omitempty"`
	IsVerified    bool   `json:"isVerified"`
	TeacherID     string `json:"teacherId,omitempty"`
	StudentCount  *int   `json:"studentCount,omitempty"`  // stored, advisory
	EnrolledCount *int   `json:"enrolledCount,omitempty"` // counted from the roster
}

// CreateAccountResponse carries the access key chosen or generated at
// enrolment, so it can be handed to the new member.
type CreateAccountResponse struct {
	Account AccountResponse `json:"account"`
	Key     string          `json:"key"`
}

// CreateInstructorRequest admin enrols an instructor. An empty password
// gets a generated key.
type CreateInstructorRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=80"`
	Email    string `json:"email"    binding:"required,email"`
	Phone    string `json:"phone"    binding:"omitempty,max=20"`
	Password string `json:"password" binding:"omitempty,max=64"`
	Belt     string `json:"belt"     binding:"omitempty,max=32"`
	DueDate  *int64 `json:"dueDate"`
}

// UpdateInstructorRequest only non-nil fields are applied.
type UpdateInstructorRequest struct {
	Name          *string `json:"name"          binding:"omitempty,min=2,max=80"`
	Email         *string `json:"email"         binding:"omitempty,email"`
	Phone         *string `json:"phone"         binding:"omitempty,max=20"`
	Password      *string `json:"password"      binding:"omitempty,min=1,max=64"`
	Belt          *string `json:"belt"          binding:"omitempty,max=32"`
	DueDate       *int64  `json:"dueDate"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid"`
	StudentCount  *int    `json:"studentCount"  binding:"omitempty,min=0"`
}

// CreateStudentRequest enrols a student. TeacherID is honoured for the
// administrator only; instructors always enrol into their own class.
type CreateStudentRequest struct {
	Name      string `json:"name"      binding:"required,min=2,max=80"`
	Email     string `json:"email"     binding:"required,email"`
	Phone     string `json:"phone"     binding:"omitempty,max=20"`
	Password  string `json:"password"  binding:"omitempty,max=64"`
	Belt      string `json:"belt"      binding:"omitempty,max=32"`
	TeacherID string `json:"teacherId" binding:"omitempty,max=64"`
	DueDate   *int64 `json:"dueDate"`
}

// UpdateStudentRequest only non-nil fields are applied.
type UpdateStudentRequest struct {
	Name          *string `json:"name"          binding:"omitempty,min=2,max=80"`
	Email         *string `json:"email"         binding:"omitempty,email"`
	Phone         *string `json:"phone"         binding:"omitempty,max=20"`
	Password      *string `json:"password"      binding:"omitempty,min=1,max=64"`
	Belt          *string `json:"belt"          binding:"omitempty,max=32"`
	DueDate       *int64  `json:"dueDate"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid"`
	TeacherID     *string `json:"teacherId"     binding:"omitempty,max=64"`
}

// RosterListRequest list filters.
type RosterListRequest struct {
	Keyword   string `form:"keyword"    binding:"omitempty,max=80"`
	Status    string `form:"status"     binding:"omitempty,oneof=all active paused unpaid"`
	TeacherID string `form:"teacher_id" binding:"omitempty,max=64"`
}

// StatusResponse result of a status toggle.
type StatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DeleteInstructorResponse reports the cascade.
type DeleteInstructorResponse struct {
	ID             string `json:"id"`
	PausedStudents int    `json:"pausedStudents"`
}

// RosterStats admin summary.
type RosterStats struct {
	Instructors       int `json:"instructors"`
	ActiveInstructors int `json:"activeInstructors"`
	Students          int `json:"students"`
	ActiveStudents    int `json:"activeStudents"`
	UnpaidStudents    int `json:"unpaidStudents"`
	PausedStudents    int `json:"pausedStudents"`
}

// ImportStudentsResponse bulk enrolment result.
type ImportStudentsResponse struct {
	Total   int                     `json:"total"`
	Success int                     `json:"success"`
	Failed  int                     `json:"failed"`
	Created []CreateAccountResponse `json:"created,omitempty"`
	Errors  []ImportRowError        `json:"errors,omitempty"`
}

// ImportRowError one rejected spreadsheet row.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
