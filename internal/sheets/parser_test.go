package sheets

import (
	"reflect"
	"testing"

	"github.com/zvitly/gradewatch-backend/internal/model"
)

// grid mirrors the real journal layout: title + types in row 1, dates in
// row 2, student rows from row 3 with names in column C.
func journalGrid() [][]string {
	return [][]string{
		{"Математика", "", "", "Лекція", "Практика", "-", "Лекція"},
		{"", "", "", "02.09", "09.09", "", "16.09"},
		{"1", "", "Іваненко Іван Іванович", "9", "", "5", "11"},
		{"2", "", "Петренко Петро Петрович", "7", "8"},
	}
}

func TestParseStudentGrades_FullRow(t *testing.T) {
	got := ParseStudentGrades(journalGrid(), "Математика (лист)", "Іваненко Іван Іванович")
	if got == nil {
		t.Fatal("expected grades, got nil")
	}

	if got.Subject != "Математика" {
		t.Errorf("subject from A1 expected, got %q", got.Subject)
	}

	want := []model.GradeEntry{
		{LessonType: "Лекція", LessonDate: "02.09", Grade: "9"},
		{LessonType: "Практика", LessonDate: "09.09", Grade: "пусто"},
		{LessonType: "Лекція", LessonDate: "16.09", Grade: "11"},
	}
	if !reflect.DeepEqual(got.Grades, want) {
		t.Errorf("grades mismatch:\ngot  %+v\nwant %+v", got.Grades, want)
	}
}

func TestParseStudentGrades_SkipsDashColumnsWithoutDate(t *testing.T) {
	got := ParseStudentGrades(journalGrid(), "Математика", "Іваненко Іван Іванович")
	if got == nil {
		t.Fatal("expected grades, got nil")
	}
	for _, entry := range got.Grades {
		if entry.LessonType == "-" && entry.LessonDate == "" {
			t.Errorf("dash column without date must be skipped: %+v", entry)
		}
	}
}

func TestParseStudentGrades_ShortStudentRow(t *testing.T) {
	got := ParseStudentGrades(journalGrid(), "Математика", "Петренко Петро Петрович")
	if got == nil {
		t.Fatal("expected grades, got nil")
	}
	// Row is shorter than the header; the missing cell renders as blank.
	if len(got.Grades) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.Grades))
	}
	if got.Grades[2].Grade != "пусто" {
		t.Errorf("trailing missing grade should render as пусто, got %q", got.Grades[2].Grade)
	}
}

func TestParseStudentGrades_StudentNotFound(t *testing.T) {
	if got := ParseStudentGrades(journalGrid(), "Математика", "Невідомий Студент"); got != nil {
		t.Errorf("expected nil for missing student, got %+v", got)
	}
}

func TestParseStudentGrades_NameTrimming(t *testing.T) {
	grid := journalGrid()
	grid[2][2] = "  Іваненко Іван Іванович  "
	if got := ParseStudentGrades(grid, "Математика", "Іваненко Іван Іванович"); got == nil {
		t.Error("names must be compared after trimming whitespace")
	}
}

func TestParseStudentGrades_GridTooShort(t *testing.T) {
	short := [][]string{
		{"Математика"},
		{""},
	}
	if got := ParseStudentGrades(short, "Математика", "Іваненко Іван Іванович"); got != nil {
		t.Errorf("grids without data rows must return nil, got %+v", got)
	}
}

func TestParseStudentGrades_SubjectFallsBackToSheetName(t *testing.T) {
	grid := journalGrid()
	grid[0][0] = ""
	got := ParseStudentGrades(grid, "Математика (лист)", "Іваненко Іван Іванович")
	if got == nil {
		t.Fatal("expected grades, got nil")
	}
	if got.Subject != "Математика (лист)" {
		t.Errorf("empty A1 should fall back to sheet name, got %q", got.Subject)
	}
}
