package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/service"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/response"
)

// RosterHandler serves instructor and student management.
type RosterHandler struct {
	svc service.RosterService
}

func NewRosterHandler(svc service.RosterService) *RosterHandler {
	return &RosterHandler{svc: svc}
}

// ── Instructors (administrator only) ──

// ListInstructors GET /api/v1/instructors
func (h *RosterHandler) ListInstructors(c *gin.Context) {
	var req dto.RosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	response.OK(c, h.svc.ListInstructors(c.Request.Context(), &req))
}

// CreateInstructor POST /api/v1/instructors
func (h *RosterHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.CreateInstructor(c.Request.Context(), &req)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateInstructor PUT /api/v1/instructors/:id
func (h *RosterHandler) UpdateInstructor(c *gin.Context) {
	var req dto.UpdateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.UpdateInstructor(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// ToggleInstructorStatus PUT /api/v1/instructors/:id/status
func (h *RosterHandler) ToggleInstructorStatus(c *gin.Context) {
	result, err := h.svc.ToggleInstructorStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteInstructor DELETE /api/v1/instructors/:id
func (h *RosterHandler) DeleteInstructor(c *gin.Context) {
	result, err := h.svc.DeleteInstructor(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats GET /api/v1/stats
func (h *RosterHandler) Stats(c *gin.Context) {
	response.OK(c, h.svc.Stats(c.Request.Context()))
}

// ── Students (administrator or owning instructor) ──

// ListStudents GET /api/v1/students
func (h *RosterHandler) ListStudents(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.RosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.ListStudents(c.Request.Context(), caller, &req)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateStudent POST /api/v1/students
func (h *RosterHandler) CreateStudent(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.CreateStudent(c.Request.Context(), caller, &req)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateStudent PUT /api/v1/students/:id
func (h *RosterHandler) UpdateStudent(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.svc.UpdateStudent(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// ToggleStudentStatus PUT /api/v1/students/:id/status
func (h *RosterHandler) ToggleStudentStatus(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.svc.ToggleStudentStatus(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteStudent DELETE /api/v1/students/:id
func (h *RosterHandler) DeleteStudent(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteStudent(c.Request.Context(), caller, c.Param("id")); err != nil {
		handleRosterError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportStudents POST /api/v1/students/import
//
// multipart/form-data with an xlsx "file" and an optional teacher_id that
// only the administrator may set.
func (h *RosterHandler) ImportStudents(c *gin.Context) {
	caller, ok := MustGetSession(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "upload an xlsx file in the \"file\" field")
		return
	}
	defer file.Close()

	rows, err := h.svc.ParseImportFile(file)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	result, err := h.svc.ImportStudents(c.Request.Context(), caller, c.PostForm("teacher_id"), rows)
	if err != nil {
		handleRosterError(c, err)
		return
	}

	response.Created(c, result)
}

func handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 12001, "instructor not found")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12002, "student not found")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12003, "e-mail already registered")
	case errors.Is(err, service.ErrInvalidBelt):
		response.BadRequest(c, 12004, "unknown belt")
	case errors.Is(err, service.ErrTeacherRequired):
		response.BadRequest(c, 12005, "teacherId is required")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 12006, "operation not allowed for this role")
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 12007, "spreadsheet has no data rows")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.Error(c, http.StatusRequestEntityTooLarge, 12008, "spreadsheet exceeds the row limit")
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 12009, "spreadsheet header must contain name and email columns")
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 12010, "file is not a readable xlsx spreadsheet")
	default:
		response.InternalError(c)
	}
}
