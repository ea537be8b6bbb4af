package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
)

var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

const (
	sheetInstructors = "Professores"
	sheetStudents    = "Alunos"
)

// ExportService renders the roster as a spreadsheet.
//
// The workbook has one sheet per collection. Students carry their
// instructor's name so the file reads without the ids.
type ExportService interface {
	ExportRoster(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(st *store.Store, logger *zap.Logger) ExportService {
	return &exportService{store: st, logger: logger, now: time.Now}
}

func (s *exportService) ExportRoster(ctx context.Context) (*bytes.Buffer, string, error) {
	snap := s.store.Snapshot()
	enrolled := enrolledByTeacher(snap.Students)
	teacherName := make(map[string]string, len(snap.Instructors))
	for _, in := range snap.Instructors {
		teacherName[in.ID] = in.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetInstructors)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	if _, err := f.NewSheet(sheetStudents); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	writeHeader(f, sheetInstructors, headerStyle,
		"ID", "Nome", "E-mail", "Telefone", "Faixa", "Status", "Pagamento", "Vencimento", "Alunos (cadastro)", "Alunos (matriculados)")
	for i, in := range snap.Instructors {
		row := i + 2
		writeIdentity(f, sheetInstructors, row, in.Identity)
		f.SetCellValue(sheetInstructors, cell(colName(8), row), in.StudentCount)
		f.SetCellValue(sheetInstructors, cell(colName(9), row), enrolled[in.ID])
	}

	writeHeader(f, sheetStudents, headerStyle,
		"ID", "Nome", "E-mail", "Telefone", "Faixa", "Status", "Pagamento", "Vencimento", "Professor", "Última auditoria")
	for i, st := range snap.Students {
		row := i + 2
		writeIdentity(f, sheetStudents, row, st.Identity)
		name, ok := teacherName[st.TeacherID]
		if !ok {
			name = "-"
		}
		f.SetCellValue(sheetStudents, cell(colName(8), row), name)
		f.SetCellValue(sheetStudents, cell(colName(9), row), st.LastAIAudit)
	}

	for _, sheet := range []string{sheetInstructors, sheetStudents} {
		f.SetColWidth(sheet, "A", "A", 38)
		f.SetColWidth(sheet, "B", "C", 28)
		f.SetColWidth(sheet, "D", "H", 14)
		f.SetColWidth(sheet, "I", "J", 24)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write roster workbook", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	filename := fmt.Sprintf("federacao_%s.xlsx", s.now().Format("2006-01-02"))
	return buf, filename, nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, t := range titles {
		f.SetCellValue(sheet, cell(colName(i), 1), t)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), style)
}

func writeIdentity(f *excelize.File, sheet string, row int, id model.Identity) {
	due := "-"
	if t, ok := id.Due(); ok {
		due = t.Format("02/01/2006")
	}
	values := []interface{}{id.ID, id.Name, id.Email, id.Phone, id.Belt, string(id.Status), string(id.PaymentStatus), due}
	for i, v := range values {
		f.SetCellValue(sheet, cell(colName(i), row), v)
	}
}

// colName 0-based column index to letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

// cell builds a cell reference such as "B3".
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
