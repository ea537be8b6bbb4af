package service

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportRoster(t *testing.T) {
	env := setupTestEnv(t)
	env.addStudent(t, "s2", "s2@x.com", "ghost")

	buf, filename, err := env.svc.Export.ExportRoster(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(filename, "federacao_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename %q", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != sheetInstructors || sheets[1] != sheetStudents {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows(sheetInstructors)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "Professor Carlos" || rows[1][9] != "1" {
		t.Errorf("unexpected instructor rows %v", rows)
	}

	rows, err = f.GetRows(sheetStudents)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 students, got %d rows", len(rows))
	}
	if rows[1][8] != "Professor Carlos" || rows[2][8] != "-" {
		t.Errorf("teacher column wrong: %v / %v", rows[1], rows[2])
	}
}
