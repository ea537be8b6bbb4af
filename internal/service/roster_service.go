package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
)

// ── roster errors ──

var (
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmailExists        = errors.New("e-mail already registered")
	ErrInvalidBelt        = errors.New("unknown belt")
	ErrTeacherRequired    = errors.New("teacherId is required")

	ErrImportNoData      = errors.New("spreadsheet has no data rows")
	ErrImportTooManyRows = errors.New("spreadsheet exceeds the row limit")
	ErrImportBadHeader   = errors.New("spreadsheet header must contain name and email columns")
	ErrImportBadFile     = errors.New("file is not a readable xlsx spreadsheet")
)

const maxImportRows = 500

// RosterService manages instructors and students.
type RosterService interface {
	ListInstructors(ctx context.Context, req *dto.RosterListRequest) []dto.AccountResponse
	CreateInstructor(ctx context.Context, req *dto.CreateInstructorRequest) (*dto.CreateAccountResponse, error)
	UpdateInstructor(ctx context.Context, id string, req *dto.UpdateInstructorRequest) (*dto.AccountResponse, error)
	ToggleInstructorStatus(ctx context.Context, id string) (*dto.StatusResponse, error)
	// DeleteInstructor removes the instructor and pauses its students.
	DeleteInstructor(ctx context.Context, id string) (*dto.DeleteInstructorResponse, error)

	ListStudents(ctx context.Context, caller session.Record, req *dto.RosterListRequest) ([]dto.AccountResponse, error)
	CreateStudent(ctx context.Context, caller session.Record, req *dto.CreateStudentRequest) (*dto.CreateAccountResponse, error)
	UpdateStudent(ctx context.Context, caller session.Record, id string, req *dto.UpdateStudentRequest) (*dto.AccountResponse, error)
	ToggleStudentStatus(ctx context.Context, caller session.Record, id string) (*dto.StatusResponse, error)
	DeleteStudent(ctx context.Context, caller session.Record, id string) error

	Stats(ctx context.Context) *dto.RosterStats

	// ParseImportFile reads students from the first sheet of an xlsx file.
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	ImportStudents(ctx context.Context, caller session.Record, teacherID string, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error)
}

// ImportStudentRow one parsed spreadsheet row.
type ImportStudentRow struct {
	Row      int
	Name     string
	Email    string
	Phone    string
	Password string
	Belt     string
}

type rosterService struct {
	cfg    *config.Config
	store  *store.Store
	logger *zap.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(cfg *config.Config, st *store.Store, logger *zap.Logger) RosterService {
	return &rosterService{cfg: cfg, store: st, logger: logger}
}

// ────────────────────── instructors ──────────────────────

func (s *rosterService) ListInstructors(ctx context.Context, req *dto.RosterListRequest) []dto.AccountResponse {
	snap := s.store.Snapshot()
	enrolled := enrolledByTeacher(snap.Students)

	out := make([]dto.AccountResponse, 0, len(snap.Instructors))
	for _, in := range snap.Instructors {
		if matchesFilter(in.Identity, req) {
			out = append(out, toInstructorResponse(in, enrolled[in.ID]))
		}
	}
	return out
}

func (s *rosterService) CreateInstructor(ctx context.Context, req *dto.CreateInstructorRequest) (*dto.CreateAccountResponse, error) {
	if err := s.checkEmail(req.Email, ""); err != nil {
		return nil, err
	}
	if req.Belt != "" && !model.ValidBelt(req.Belt) {
		return nil, ErrInvalidBelt
	}
	key, err := s.accessKey(req.Password)
	if err != nil {
		return nil, err
	}

	in, err := s.store.AddInstructor(ctx, model.Instructor{Identity: model.Identity{
		Name:          strings.TrimSpace(req.Name),
		Email:         model.NormalizeEmail(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Password:      key,
		Status:        model.StatusActive,
		PaymentStatus: model.PaymentPaid,
		Belt:          req.Belt,
		DueDate:       req.DueDate,
		IsVerified:    model.Bool(false),
	}})
	if err != nil {
		s.logger.Error("failed to create instructor", zap.Error(err))
		return nil, err
	}
	s.logger.Info("instructor enrolled", zap.String("id", in.ID))
	return &dto.CreateAccountResponse{Account: toInstructorResponse(in, 0), Key: key}, nil
}

func (s *rosterService) UpdateInstructor(ctx context.Context, id string, req *dto.UpdateInstructorRequest) (*dto.AccountResponse, error) {
	if _, ok := s.store.FindInstructor(id); !ok {
		return nil, ErrInstructorNotFound
	}
	p := identityPatch{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Password: req.Password,
		Belt: req.Belt, DueDate: req.DueDate, PaymentStatus: req.PaymentStatus,
	}
	if err := s.checkPatch(id, p); err != nil {
		return nil, err
	}

	in, err := s.store.UpdateInstructor(ctx, id, func(in *model.Instructor) error {
		p.apply(&in.Identity)
		if req.StudentCount != nil {
			in.StudentCount = *req.StudentCount
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("failed to update instructor", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toInstructorResponse(in, enrolledByTeacher(s.store.Students())[in.ID])
	return &resp, nil
}

func (s *rosterService) ToggleInstructorStatus(ctx context.Context, id string) (*dto.StatusResponse, error) {
	status, err := s.store.ToggleInstructorStatus(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("failed to toggle instructor", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &dto.StatusResponse{ID: id, Status: string(status)}, nil
}

func (s *rosterService) DeleteInstructor(ctx context.Context, id string) (*dto.DeleteInstructorResponse, error) {
	paused, err := s.store.DeleteInstructor(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("failed to delete instructor", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("instructor removed", zap.String("id", id), zap.Int("paused_students", paused))
	return &dto.DeleteInstructorResponse{ID: id, PausedStudents: paused}, nil
}

// ────────────────────── students ──────────────────────

func (s *rosterService) ListStudents(ctx context.Context, caller session.Record, req *dto.RosterListRequest) ([]dto.AccountResponse, error) {
	teacherID := req.TeacherID
	switch caller.Role {
	case model.RoleAdministrator:
	case model.RoleInstructor:
		teacherID = caller.ID
	default:
		return nil, ErrNoPermission
	}

	students := s.store.Students()
	out := make([]dto.AccountResponse, 0, len(students))
	for _, st := range students {
		if teacherID != "" && st.TeacherID != teacherID {
			continue
		}
		if matchesFilter(st.Identity, req) {
			out = append(out, toStudentResponse(st))
		}
	}
	return out, nil
}

func (s *rosterService) CreateStudent(ctx context.Context, caller session.Record, req *dto.CreateStudentRequest) (*dto.CreateAccountResponse, error) {
	teacherID, err := s.enrolmentTeacher(caller, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(req.Email, ""); err != nil {
		return nil, err
	}
	belt := req.Belt
	if belt == "" {
		belt = model.DefaultBelt
	} else if !model.ValidBelt(belt) {
		return nil, ErrInvalidBelt
	}
	key, err := s.accessKey(req.Password)
	if err != nil {
		return nil, err
	}

	st, err := s.store.AddStudent(ctx, newStudent(req.Name, req.Email, req.Phone, key, belt, teacherID, req.DueDate))
	if err != nil {
		s.logger.Error("failed to create student", zap.Error(err))
		return nil, err
	}
	s.logger.Info("student enrolled", zap.String("id", st.ID), zap.String("teacher_id", teacherID))
	return &dto.CreateAccountResponse{Account: toStudentResponse(st), Key: key}, nil
}

func (s *rosterService) UpdateStudent(ctx context.Context, caller session.Record, id string, req *dto.UpdateStudentRequest) (*dto.AccountResponse, error) {
	owned, err := s.ownedStudent(caller, id)
	if err != nil {
		return nil, err
	}
	if req.TeacherID != nil && *req.TeacherID != owned.TeacherID {
		if caller.Role != model.RoleAdministrator {
			return nil, ErrNoPermission
		}
		if _, ok := s.store.FindInstructor(*req.TeacherID); !ok {
			return nil, ErrInstructorNotFound
		}
	}
	p := identityPatch{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Password: req.Password,
		Belt: req.Belt, DueDate: req.DueDate, PaymentStatus: req.PaymentStatus,
	}
	if err := s.checkPatch(id, p); err != nil {
		return nil, err
	}

	st, err := s.store.UpdateStudent(ctx, id, func(st *model.Student) error {
		// the student may have moved class since the ownership check
		if caller.Role == model.RoleInstructor && st.TeacherID != caller.ID {
			return ErrNoPermission
		}
		if req.TeacherID != nil && caller.Role == model.RoleAdministrator {
			st.TeacherID = *req.TeacherID
		}
		p.apply(&st.Identity)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrIdentityNotFound):
			return nil, ErrStudentNotFound
		case errors.Is(err, ErrNoPermission):
			return nil, err
		}
		s.logger.Error("failed to update student", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toStudentResponse(st)
	return &resp, nil
}

func (s *rosterService) ToggleStudentStatus(ctx context.Context, caller session.Record, id string) (*dto.StatusResponse, error) {
	if _, err := s.ownedStudent(caller, id); err != nil {
		return nil, err
	}
	status, err := s.store.ToggleStudentStatus(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("failed to toggle student", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &dto.StatusResponse{ID: id, Status: string(status)}, nil
}

func (s *rosterService) DeleteStudent(ctx context.Context, caller session.Record, id string) error {
	if _, err := s.ownedStudent(caller, id); err != nil {
		return err
	}
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("failed to delete student", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("student removed", zap.String("id", id))
	return nil
}

func (s *rosterService) Stats(ctx context.Context) *dto.RosterStats {
	snap := s.store.Snapshot()
	stats := rosterStats(snap.Instructors, snap.Students)
	return &stats
}

// ────────────────────── spreadsheet import ──────────────────────

func (s *rosterService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(excelRows[0])
	if col["name"] < 0 || col["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		get := func(key string) string {
			if idx := col[key]; idx >= 0 && idx < len(r) {
				return strings.TrimSpace(r[idx])
			}
			return ""
		}
		item := ImportStudentRow{
			Row:      i + 1,
			Name:     get("name"),
			Email:    get("email"),
			Phone:    get("phone"),
			Password: get("password"),
			Belt:     get("belt"),
		}
		if item.Name == "" && item.Email == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex maps known column names to their index, -1 when absent.
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{"name": -1, "email": -1, "phone": -1, "password": -1, "belt": -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "nome":
			idx["name"] = i
		case "email", "e-mail":
			idx["email"] = i
		case "phone", "telefone":
			idx["phone"] = i
		case "password", "senha", "chave":
			idx["password"] = i
		case "belt", "faixa":
			idx["belt"] = i
		}
	}
	return idx
}

func (s *rosterService) ImportStudents(ctx context.Context, caller session.Record, teacherID string, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error) {
	teacherID, err := s.enrolmentTeacher(caller, teacherID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportStudentsResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row, Reason: reason})
	}
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		email := model.NormalizeEmail(row.Email)
		switch {
		case row.Name == "" || email == "":
			fail(row.Row, "name and email are required")
			continue
		case !validEmail(email):
			fail(row.Row, fmt.Sprintf("invalid e-mail: %s", row.Email))
			continue
		case seen[email]:
			fail(row.Row, fmt.Sprintf("e-mail repeated in file: %s", email))
			continue
		}
		seen[email] = true
		if err := s.checkEmail(email, ""); err != nil {
			fail(row.Row, fmt.Sprintf("e-mail already registered: %s", email))
			continue
		}
		belt := row.Belt
		if belt == "" {
			belt = model.DefaultBelt
		} else if !model.ValidBelt(belt) {
			fail(row.Row, fmt.Sprintf("unknown belt: %s", belt))
			continue
		}
		key, err := s.accessKey(row.Password)
		if err != nil {
			fail(row.Row, "could not generate access key")
			continue
		}

		st, err := s.store.AddStudent(ctx, newStudent(row.Name, email, row.Phone, key, belt, teacherID, nil))
		if err != nil {
			s.logger.Error("import row failed", zap.Int("row", row.Row), zap.Error(err))
			fail(row.Row, "storage error")
			continue
		}
		resp.Success++
		resp.Created = append(resp.Created, dto.CreateAccountResponse{Account: toStudentResponse(st), Key: key})
	}

	s.logger.Info("student import finished",
		zap.String("teacher_id", teacherID),
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// ────────────────────── helpers ──────────────────────

type identityPatch struct {
	Name, Email, Phone, Password, Belt, PaymentStatus *string
	DueDate                                           *int64
}

// checkPatch validates the fields of p that depend on the rest of the roster.
func (s *rosterService) checkPatch(id string, p identityPatch) error {
	if p.Email != nil {
		if err := s.checkEmail(*p.Email, id); err != nil {
			return err
		}
	}
	if p.Belt != nil && *p.Belt != "" && !model.ValidBelt(*p.Belt) {
		return ErrInvalidBelt
	}
	return nil
}

// apply copies the set fields of p onto id. It runs under the store lock and
// must not read the store.
func (p identityPatch) apply(id *model.Identity) {
	if p.Email != nil {
		id.Email = model.NormalizeEmail(*p.Email)
	}
	if p.Belt != nil {
		id.Belt = *p.Belt
	}
	if p.Name != nil {
		id.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		id.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Password != nil {
		id.Password = *p.Password
	}
	if p.PaymentStatus != nil {
		id.PaymentStatus = model.PaymentStatus(*p.PaymentStatus)
	}
	if p.DueDate != nil {
		due := *p.DueDate
		id.DueDate = &due
	}
}

// checkEmail rejects an address used by the administrator or by any identity
// other than exceptID.
func (s *rosterService) checkEmail(email, exceptID string) error {
	email = model.NormalizeEmail(email)
	if email == s.cfg.Auth.AdminEmail {
		return ErrEmailExists
	}
	if acc, ok := s.store.FindByEmail(email); ok && acc.ID != exceptID {
		return ErrEmailExists
	}
	return nil
}

func (s *rosterService) accessKey(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	key, err := generateKey(keyLength)
	if err != nil {
		s.logger.Error("failed to generate access key", zap.Error(err))
		return "", err
	}
	return key, nil
}

// enrolmentTeacher picks the instructor new students belong to. Instructors
// always enrol into their own class.
func (s *rosterService) enrolmentTeacher(caller session.Record, requested string) (string, error) {
	switch caller.Role {
	case model.RoleInstructor:
		return caller.ID, nil
	case model.RoleAdministrator:
		if requested == "" {
			return "", ErrTeacherRequired
		}
		if _, ok := s.store.FindInstructor(requested); !ok {
			return "", ErrInstructorNotFound
		}
		return requested, nil
	}
	return "", ErrNoPermission
}

// ownedStudent loads a student the caller may manage.
func (s *rosterService) ownedStudent(caller session.Record, id string) (model.Student, error) {
	st, ok := s.store.FindStudent(id)
	if !ok {
		return model.Student{}, ErrStudentNotFound
	}
	switch caller.Role {
	case model.RoleAdministrator:
		return st, nil
	case model.RoleInstructor:
		if st.TeacherID == caller.ID {
			return st, nil
		}
	}
	return model.Student{}, ErrNoPermission
}

func newStudent(name, email, phone, key, belt, teacherID string, due *int64) model.Student {
	return model.Student{
		Identity: model.Identity{
			Name:          strings.TrimSpace(name),
			Email:         model.NormalizeEmail(email),
			Phone:         strings.TrimSpace(phone),
			Password:      key,
			Status:        model.StatusActive,
			PaymentStatus: model.PaymentPaid,
			Belt:          belt,
			DueDate:       due,
			IsVerified:    model.Bool(false),
		},
		TeacherID: teacherID,
	}
}

// matchesFilter applies the keyword and status filters of a list request.
func matchesFilter(id model.Identity, req *dto.RosterListRequest) bool {
	if req == nil {
		return true
	}
	if kw := strings.ToLower(strings.TrimSpace(req.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(id.Name), kw) && !strings.Contains(strings.ToLower(id.Email), kw) {
			return false
		}
	}
	switch req.Status {
	case "active":
		return id.Status == model.StatusActive
	case "paused":
		return id.Status == model.StatusPaused
	case "unpaid":
		return id.PaymentStatus == model.PaymentUnpaid
	}
	return true
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
