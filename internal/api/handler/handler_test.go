package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/api/middleware"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult  *dto.TokenResponse
	loginErr     error
	verifyResult *dto.TokenResponse
	verifyErr    error
	resendErr    error
	logoutErr    error
	loggedOut    string
	decision     session.Decision
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) ConfirmVerification(_ context.Context, _ *dto.VerifyRequest) (*dto.TokenResponse, error) {
	return m.verifyResult, m.verifyErr
}
func (m *mockAuthService) ResendVerification(_ context.Context, _ *dto.ResendVerificationRequest) error {
	return m.resendErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.loggedOut = claims.ID
	return m.logoutErr
}
func (m *mockAuthService) Resolve(stale session.Record) (session.Record, session.Decision) {
	return stale, m.decision
}
func (m *mockAuthService) Session(stale session.Record, sessionID string) *dto.SessionResponse {
	return &dto.SessionResponse{
		SessionID: sessionID,
		User:      dto.AccountResponse{ID: stale.ID, Name: stale.Name},
		Access:    dto.AccessResponse{Blocked: m.decision.Blocked, Reason: string(m.decision.Reason)},
	}
}

// ── Mock RosterService ──

type mockRosterService struct {
	listResult    []dto.AccountResponse
	createResult  *dto.CreateAccountResponse
	createErr     error
	updateResult  *dto.AccountResponse
	updateErr     error
	statusResult  *dto.StatusResponse
	statusErr     error
	deleteResult  *dto.DeleteInstructorResponse
	deleteErr     error
	studentsErr   error
	parseRows     []service.ImportStudentRow
	parseErr      error
	importResult  *dto.ImportStudentsResponse
	importErr     error
	importTeacher string
	caller        session.Record
}

func (m *mockRosterService) ListInstructors(_ context.Context, _ *dto.RosterListRequest) []dto.AccountResponse {
	return m.listResult
}
func (m *mockRosterService) CreateInstructor(_ context.Context, _ *dto.CreateInstructorRequest) (*dto.CreateAccountResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockRosterService) UpdateInstructor(_ context.Context, _ string, _ *dto.UpdateInstructorRequest) (*dto.AccountResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockRosterService) ToggleInstructorStatus(_ context.Context, _ string) (*dto.StatusResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockRosterService) DeleteInstructor(_ context.Context, _ string) (*dto.DeleteInstructorResponse, error) {
	return m.deleteResult, m.deleteErr
}
func (m *mockRosterService) ListStudents(_ context.Context, caller session.Record, _ *dto.RosterListRequest) ([]dto.AccountResponse, error) {
	m.caller = caller
	return m.listResult, m.studentsErr
}
func (m *mockRosterService) CreateStudent(_ context.Context, caller session.Record, _ *dto.CreateStudentRequest) (*dto.CreateAccountResponse, error) {
	m.caller = caller
	return m.createResult, m.createErr
}
func (m *mockRosterService) UpdateStudent(_ context.Context, _ session.Record, _ string, _ *dto.UpdateStudentRequest) (*dto.AccountResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockRosterService) ToggleStudentStatus(_ context.Context, _ session.Record, _ string) (*dto.StatusResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockRosterService) DeleteStudent(_ context.Context, _ session.Record, _ string) error {
	return m.deleteErr
}
func (m *mockRosterService) Stats(_ context.Context) *dto.RosterStats {
	return &dto.RosterStats{Instructors: 1, Students: 2}
}
func (m *mockRosterService) ParseImportFile(_ io.Reader) ([]service.ImportStudentRow, error) {
	return m.parseRows, m.parseErr
}
func (m *mockRosterService) ImportStudents(_ context.Context, _ session.Record, teacherID string, _ []service.ImportStudentRow) (*dto.ImportStudentsResponse, error) {
	m.importTeacher = teacherID
	return m.importResult, m.importErr
}

// ── Mock FeedService ──

type mockFeedService struct {
	postResult *model.Announcement
	postErr    error
	listResult []model.Announcement
	listErr    error
}

func (m *mockFeedService) Post(_ context.Context, _ session.Record, _ *dto.PostAnnouncementRequest) (*model.Announcement, error) {
	return m.postResult, m.postErr
}
func (m *mockFeedService) List(_ context.Context, _ session.Record) ([]model.Announcement, error) {
	return m.listResult, m.listErr
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	listResult []notify.Notification
	dismissed  bool
	sessionID  string
	dismissID  string
}

func (m *mockNotificationService) List(_ context.Context, sessionID string) []notify.Notification {
	m.sessionID = sessionID
	return m.listResult
}
func (m *mockNotificationService) Dismiss(_ context.Context, sessionID, id string) bool {
	m.sessionID = sessionID
	m.dismissID = id
	return m.dismissed
}

// ── Mock TransferService ──

type mockTransferService struct {
	exportResult *dto.TransferExportResponse
	exportErr    error
	importResult *dto.TransferImportResponse
	importErr    error
}

func (m *mockTransferService) Export(_ context.Context) (*dto.TransferExportResponse, error) {
	return m.exportResult, m.exportErr
}
func (m *mockTransferService) Import(_ context.Context, _ *dto.TransferImportRequest) (*dto.TransferImportResponse, error) {
	return m.importResult, m.importErr
}

// ── Mock AuditService ──

type mockAuditService struct {
	runResult   *dto.AuditResponse
	runErr      error
	sessionID   string
	cleanResult *dto.DeepCleanResponse
	cleanErr    error
}

func (m *mockAuditService) RunAudit(_ context.Context, sessionID string) (*dto.AuditResponse, error) {
	m.sessionID = sessionID
	return m.runResult, m.runErr
}
func (m *mockAuditService) DeepClean(_ context.Context) (*dto.DeepCleanResponse, error) {
	return m.cleanResult, m.cleanErr
}

// ── Mock BillingService ──

type mockBillingService struct {
	regularizeResult *dto.RegularizeResponse
	regularizeErr    error
	calendar         []byte
	filename         string
	calendarErr      error
}

func (m *mockBillingService) Regularize(_ context.Context, _ session.Record, _ *dto.RegularizeRequest) (*dto.RegularizeResponse, error) {
	return m.regularizeResult, m.regularizeErr
}
func (m *mockBillingService) DueCalendar(_ context.Context, _ session.Record) ([]byte, string, error) {
	return m.calendar, m.filename, m.calendarErr
}
func (m *mockBillingService) Drain() {}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportRoster(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock DashboardService / MotivationService ──

type mockDashboardService struct {
	result *dto.DashboardResponse
	err    error
}

func (m *mockDashboardService) Get(_ context.Context, _ session.Record) (*dto.DashboardResponse, error) {
	return m.result, m.err
}

type mockMotivationService struct{ quote string }

func (m *mockMotivationService) Quote(_ context.Context) string { return m.quote }

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func testRecord(role model.Role) session.Record {
	rec := session.Record{Identity: model.Identity{
		ID:            "t1",
		Name:          "Professor Carlos",
		Email:         "carlos@academia.com",
		Role:          role,
		Status:        model.StatusActive,
		PaymentStatus: model.PaymentPaid,
	}}
	if role == model.RoleStudent {
		rec.ID = "s1"
		rec.TeacherID = "t1"
	}
	return rec
}

func setAuthAs(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := testRecord(role)
		c.Set(middleware.CtxUserID, rec.ID)
		c.Set(middleware.CtxRole, role)
		c.Set(middleware.CtxSession, rec)
		c.Set(middleware.CtxClaims, &jwt.Claims{
			UserID: rec.ID,
			Role:   role.String(),
			RegisteredClaims: jwtv5.RegisteredClaims{
				ID:        "test-jti",
				ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(15 * time.Minute)),
			},
		})
	}
}

func setAuth(c *gin.Context) { setAuthAs(model.RoleAdministrator)(c) }

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func jsonRequest(method, path string, v interface{}) *http.Request {
	req := httptest.NewRequest(method, path, jsonBody(v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, httpCode, bizCode int) {
	t.Helper()
	if w.Code != httpCode {
		t.Errorf("expected %d, got %d (%s)", httpCode, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != bizCode {
		t.Errorf("expected code %d, got %d", bizCode, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "test-access-token", ExpiresIn: 3600, SessionID: "jti"},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/login", dto.LoginRequest{
		Email:    "carlos@academia.com",
		Password: "123",
	}))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		httpCode int
		bizCode  int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{"unknown e-mail", service.ErrAccountNotFound, http.StatusNotFound, 11002},
		{"verification pending", service.ErrVerificationPending, http.StatusForbidden, 11003},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{loginErr: tt.err})

			_, _, w := setupGin()
			r := gin.New()
			r.POST("/auth/login", h.Login)
			r.ServeHTTP(w, jsonRequest("POST", "/auth/login", dto.LoginRequest{
				Email:    "carlos@academia.com",
				Password: "wrong",
			}))

			assertStatus(t, w, tt.httpCode, tt.bizCode)
		})
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{verifyResult: &dto.TokenResponse{AccessToken: "tok"}})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/auth/verify", h.Verify)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/verify", dto.VerifyRequest{Email: "a@b.com", Password: "x"}))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestAuthHandler_ResendVerification(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/auth/verify/resend", h.ResendVerification)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/verify/resend", dto.ResendVerificationRequest{Email: "a@b.com"}))

	assertStatus(t, w, http.StatusAccepted, 0)
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/auth/logout", setAuth, h.Logout)
	r.ServeHTTP(w, httptest.NewRequest("POST", "/auth/logout", nil))

	assertStatus(t, w, http.StatusOK, 0)
	if mock.loggedOut != "test-jti" {
		t.Errorf("expected session test-jti to be closed, got %q", mock.loggedOut)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, httptest.NewRequest("POST", "/auth/logout", nil))

	assertStatus(t, w, http.StatusUnauthorized, 10002)
}

func TestAuthHandler_Session_ReportsBlock(t *testing.T) {
	mock := &mockAuthService{decision: session.Decision{Blocked: true, Reason: session.ReasonUnpaid}}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/session", setAuthAs(model.RoleStudent), h.Session)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/session", nil))

	assertStatus(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"reason":"unpaid"`) {
		t.Errorf("expected unpaid reason in body, got %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// RosterHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRosterHandler_CreateInstructor(t *testing.T) {
	mock := &mockRosterService{
		createResult: &dto.CreateAccountResponse{Account: dto.AccountResponse{ID: "t2"}, Key: "AB12CD34"},
	}
	h := NewRosterHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/instructors", setAuth, h.CreateInstructor)
	r.ServeHTTP(w, jsonRequest("POST", "/instructors", dto.CreateInstructorRequest{
		Name: "Mestre Ana", Email: "ana@academia.com", Belt: "Preta",
	}))

	assertStatus(t, w, http.StatusCreated, 0)
}

func TestRosterHandler_CreateInstructor_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		httpCode int
		bizCode  int
	}{
		{"duplicate e-mail", service.ErrEmailExists, http.StatusConflict, 12003},
		{"unknown belt", service.ErrInvalidBelt, http.StatusBadRequest, 12004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRosterHandler(&mockRosterService{createErr: tt.err})

			_, _, w := setupGin()
			r := gin.New()
			r.POST("/instructors", setAuth, h.CreateInstructor)
			r.ServeHTTP(w, jsonRequest("POST", "/instructors", dto.CreateInstructorRequest{
				Name: "Mestre Ana", Email: "ana@academia.com",
			}))

			assertStatus(t, w, tt.httpCode, tt.bizCode)
		})
	}
}

func TestRosterHandler_CreateInstructor_InvalidEmail(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/instructors", setAuth, h.CreateInstructor)
	r.ServeHTTP(w, jsonRequest("POST", "/instructors", map[string]string{"name": "Ana", "email": "not-an-email"}))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestRosterHandler_UpdateInstructor_NotFound(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{updateErr: service.ErrInstructorNotFound})

	_, _, w := setupGin()
	r := gin.New()
	r.PUT("/instructors/:id", setAuth, h.UpdateInstructor)
	r.ServeHTTP(w, jsonRequest("PUT", "/instructors/missing", map[string]string{"name": "Mestre X"}))

	assertStatus(t, w, http.StatusNotFound, 12001)
}

func TestRosterHandler_DeleteInstructor(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{
		deleteResult: &dto.DeleteInstructorResponse{ID: "t1", PausedStudents: 2},
	})

	_, _, w := setupGin()
	r := gin.New()
	r.DELETE("/instructors/:id", setAuth, h.DeleteInstructor)
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/instructors/t1", nil))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestRosterHandler_ListStudents_PassesCaller(t *testing.T) {
	mock := &mockRosterService{listResult: []dto.AccountResponse{{ID: "s1"}}}
	h := NewRosterHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/students", setAuthAs(model.RoleInstructor), h.ListStudents)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/students?status=unpaid", nil))

	assertStatus(t, w, http.StatusOK, 0)
	if mock.caller.Role != model.RoleInstructor || mock.caller.ID != "t1" {
		t.Errorf("expected instructor t1 as caller, got %+v", mock.caller)
	}
}

func TestRosterHandler_ListStudents_BadFilter(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/students", setAuth, h.ListStudents)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/students?status=sleeping", nil))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestRosterHandler_StudentErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		httpCode int
		bizCode  int
	}{
		{"not owned", service.ErrNoPermission, http.StatusForbidden, 12006},
		{"missing", service.ErrStudentNotFound, http.StatusNotFound, 12002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRosterHandler(&mockRosterService{statusErr: tt.err})

			_, _, w := setupGin()
			r := gin.New()
			r.PUT("/students/:id/status", setAuthAs(model.RoleInstructor), h.ToggleStudentStatus)
			r.ServeHTTP(w, httptest.NewRequest("PUT", "/students/s9/status", nil))

			assertStatus(t, w, tt.httpCode, tt.bizCode)
		})
	}
}

func TestRosterHandler_CreateStudent_TeacherRequired(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{createErr: service.ErrTeacherRequired})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/students", setAuth, h.CreateStudent)
	r.ServeHTTP(w, jsonRequest("POST", "/students", dto.CreateStudentRequest{
		Name: "Bia", Email: "bia@aluno.com",
	}))

	assertStatus(t, w, http.StatusBadRequest, 12005)
}

func multipartFile(t *testing.T, field, filename string, content []byte, extra map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestRosterHandler_ImportStudents(t *testing.T) {
	mock := &mockRosterService{
		parseRows:    []service.ImportStudentRow{{Row: 2, Name: "Bia", Email: "bia@aluno.com"}},
		importResult: &dto.ImportStudentsResponse{Total: 1, Success: 1},
	}
	h := NewRosterHandler(mock)

	body, contentType := multipartFile(t, "file", "alunos.xlsx", []byte("xlsx"), map[string]string{"teacher_id": "t1"})
	req := httptest.NewRequest("POST", "/students/import", body)
	req.Header.Set("Content-Type", contentType)

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/students/import", setAuth, h.ImportStudents)
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusCreated, 0)
	if mock.importTeacher != "t1" {
		t.Errorf("expected teacher_id t1 to be forwarded, got %q", mock.importTeacher)
	}
}

func TestRosterHandler_ImportStudents_NoFile(t *testing.T) {
	h := NewRosterHandler(&mockRosterService{})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/students/import", setAuth, h.ImportStudents)
	r.ServeHTTP(w, httptest.NewRequest("POST", "/students/import", nil))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestRosterHandler_ImportStudents_BadSheet(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		httpCode int
		bizCode  int
	}{
		{"no rows", service.ErrImportNoData, http.StatusBadRequest, 12007},
		{"too many rows", service.ErrImportTooManyRows, http.StatusRequestEntityTooLarge, 12008},
		{"bad header", service.ErrImportBadHeader, http.StatusBadRequest, 12009},
		{"not xlsx", service.ErrImportBadFile, http.StatusBadRequest, 12010},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRosterHandler(&mockRosterService{parseErr: tt.err})

			body, contentType := multipartFile(t, "file", "alunos.xlsx", []byte("xlsx"), nil)
			req := httptest.NewRequest("POST", "/students/import", body)
			req.Header.Set("Content-Type", contentType)

			_, _, w := setupGin()
			r := gin.New()
			r.POST("/students/import", setAuth, h.ImportStudents)
			r.ServeHTTP(w, req)

			assertStatus(t, w, tt.httpCode, tt.bizCode)
		})
	}
}

// ═══════════════════════════════════════════════════════════
// FeedHandler Tests
// ═══════════════════════════════════════════════════════════

func TestFeedHandler_Post(t *testing.T) {
	h := NewFeedHandler(&mockFeedService{postResult: &model.Announcement{ID: "a1", TeacherID: "t1"}})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/announcements", setAuthAs(model.RoleInstructor), h.Post)
	r.ServeHTTP(w, jsonRequest("POST", "/announcements", dto.PostAnnouncementRequest{Content: "Treino às 19h"}))

	assertStatus(t, w, http.StatusCreated, 0)
}

func TestFeedHandler_Post_ModerationRejected(t *testing.T) {
	h := NewFeedHandler(&mockFeedService{postErr: &service.ModerationRejectedError{Reason: "linguagem ofensiva"}})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/announcements", setAuthAs(model.RoleInstructor), h.Post)
	r.ServeHTTP(w, jsonRequest("POST", "/announcements", dto.PostAnnouncementRequest{Content: "texto"}))

	assertStatus(t, w, http.StatusUnprocessableEntity, 13002)
	if resp := parseResponse(w); resp.Details != "linguagem ofensiva" {
		t.Errorf("expected moderation reason in details, got %q", resp.Details)
	}
}

func TestFeedHandler_Post_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		httpCode int
		bizCode  int
	}{
		{"blank content", service.ErrEmptyContent, http.StatusBadRequest, 13001},
		{"not an instructor", service.ErrNoPermission, http.StatusForbidden, 13003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFeedHandler(&mockFeedService{postErr: tt.err})

			_, _, w := setupGin()
			r := gin.New()
			r.POST("/announcements", setAuth, h.Post)
			r.ServeHTTP(w, jsonRequest("POST", "/announcements", dto.PostAnnouncementRequest{Content: "   "}))

			assertStatus(t, w, tt.httpCode, tt.bizCode)
		})
	}
}

func TestFeedHandler_List(t *testing.T) {
	h := NewFeedHandler(&mockFeedService{listResult: []model.Announcement{{ID: "a1"}, {ID: "a2"}}})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/announcements", setAuthAs(model.RoleStudent), h.List)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/announcements", nil))

	assertStatus(t, w, http.StatusOK, 0)
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_List_UsesSessionID(t *testing.T) {
	mock := &mockNotificationService{listResult: []notify.Notification{{ID: "n1"}}}
	h := NewNotificationHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/notifications", setAuth, h.List)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/notifications", nil))

	assertStatus(t, w, http.StatusOK, 0)
	if mock.sessionID != "test-jti" {
		t.Errorf("expected session test-jti, got %q", mock.sessionID)
	}
}

func TestNotificationHandler_Dismiss(t *testing.T) {
	tests := []struct {
		name      string
		dismissed bool
		want      string
	}{
		{"active", true, `"dismissed":true`},
		{"already expired", false, `"dismissed":false`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotificationService{dismissed: tt.dismissed}
			h := NewNotificationHandler(mock)

			_, _, w := setupGin()
			r := gin.New()
			r.DELETE("/notifications/:id", setAuth, h.Dismiss)
			r.ServeHTTP(w, httptest.NewRequest("DELETE", "/notifications/n1", nil))

			assertStatus(t, w, http.StatusOK, 0)
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected %s in body, got %s", tt.want, w.Body.String())
			}
			if mock.sessionID != "test-jti" || mock.dismissID != "n1" {
				t.Errorf("unexpected call session=%q id=%q", mock.sessionID, mock.dismissID)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// TransferHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTransferHandler_Export(t *testing.T) {
	h := NewTransferHandler(&mockTransferService{
		exportResult: &dto.TransferExportResponse{Token: "abc", ShareURL: "https://x/#sync=abc"},
	})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/transfer/export", setAuth, h.Export)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/transfer/export", nil))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestTransferHandler_Import_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		httpCode int
		bizCode  int
	}{
		{"malformed", service.ErrTransferMalformed, http.StatusBadRequest, 14001},
		{"missing field", service.ErrTransferMissingField, http.StatusBadRequest, 14002},
		{"future version", service.ErrTransferUnsupportedVersion, http.StatusBadRequest, 14003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTransferHandler(&mockTransferService{importErr: tt.err})

			_, _, w := setupGin()
			r := gin.New()
			r.POST("/transfer/import", setAuth, h.Import)
			r.ServeHTTP(w, jsonRequest("POST", "/transfer/import", dto.TransferImportRequest{Token: "garbage"}))

			assertStatus(t, w, tt.httpCode, tt.bizCode)
		})
	}
}

func TestTransferHandler_Import_MissingToken(t *testing.T) {
	h := NewTransferHandler(&mockTransferService{})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/transfer/import", setAuth, h.Import)
	r.ServeHTTP(w, jsonRequest("POST", "/transfer/import", map[string]string{}))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

// ═══════════════════════════════════════════════════════════
// AuditHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuditHandler_Run(t *testing.T) {
	mock := &mockAuditService{runResult: &dto.AuditResponse{Audited: 2, Blocked: 1}}
	h := NewAuditHandler(mock)

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/audit", setAuth, h.Run)
	r.ServeHTTP(w, httptest.NewRequest("POST", "/audit", nil))

	assertStatus(t, w, http.StatusOK, 0)
	if mock.sessionID != "test-jti" {
		t.Errorf("expected completion to target test-jti, got %q", mock.sessionID)
	}
}

func TestAuditHandler_DeepClean_Failure(t *testing.T) {
	h := NewAuditHandler(&mockAuditService{cleanErr: errors.New("store down")})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/maintenance/deep-clean", setAuth, h.DeepClean)
	r.ServeHTTP(w, httptest.NewRequest("POST", "/maintenance/deep-clean", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BillingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBillingHandler_Regularize_Accepted(t *testing.T) {
	h := NewBillingHandler(&mockBillingService{
		regularizeResult: &dto.RegularizeResponse{Status: "processing", CompletesInMs: 3000},
	})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/billing/regularize", setAuthAs(model.RoleStudent), h.Regularize)
	r.ServeHTTP(w, jsonRequest("POST", "/billing/regularize", dto.RegularizeRequest{Confirmed: true}))

	assertStatus(t, w, http.StatusAccepted, 0)
}

func TestBillingHandler_Regularize_NotConfirmed(t *testing.T) {
	h := NewBillingHandler(&mockBillingService{regularizeErr: service.ErrPaymentNotConfirmed})

	_, _, w := setupGin()
	r := gin.New()
	r.POST("/billing/regularize", setAuthAs(model.RoleStudent), h.Regularize)
	r.ServeHTTP(w, jsonRequest("POST", "/billing/regularize", dto.RegularizeRequest{}))

	assertStatus(t, w, http.StatusBadRequest, 15001)
}

func TestBillingHandler_DueCalendar(t *testing.T) {
	h := NewBillingHandler(&mockBillingService{
		calendar: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "vencimentos.ics",
	})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/billing/calendar", setAuth, h.DueCalendar)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/billing/calendar", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("expected text/calendar, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "vencimentos.ics") {
		t.Errorf("expected filename in Content-Disposition, got %q", cd)
	}
}

func TestBillingHandler_DueCalendar_Empty(t *testing.T) {
	h := NewBillingHandler(&mockBillingService{calendarErr: service.ErrNoDueDates})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/billing/calendar", setAuth, h.DueCalendar)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/billing/calendar", nil))

	assertStatus(t, w, http.StatusNotFound, 15002)
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportRoster(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "federacao.xlsx",
	})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/export/roster", setAuth, h.ExportRoster)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/roster", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxMIME {
		t.Errorf("expected %s, got %q", xlsxMIME, ct)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_ExportRoster_Failure(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/export/roster", setAuth, h.ExportRoster)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export/roster", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DashboardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_Get(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{
		result: &dto.DashboardResponse{Role: "ALUNO", Student: &dto.StudentDashboard{DaysToDue: 5}},
	}, &mockMotivationService{})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/dashboard", setAuthAs(model.RoleStudent), h.Get)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard", nil))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestDashboardHandler_Motivation(t *testing.T) {
	h := NewDashboardHandler(&mockDashboardService{}, &mockMotivationService{quote: "Oss!"})

	_, _, w := setupGin()
	r := gin.New()
	r.GET("/motivation", setAuth, h.Motivation)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/motivation", nil))

	assertStatus(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), "Oss!") {
		t.Errorf("expected quote in body, got %s", w.Body.String())
	}
}
