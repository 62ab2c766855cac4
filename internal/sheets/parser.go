package sheets

import (
	"strings"

	"github.com/zvitly/gradewatch-backend/internal/model"
)

// Journal sheet layout:
//
//	row 1: A1 = subject title, D1.. = lesson types
//	row 2: D2.. = lesson dates
//	row 3+: student rows, full name in column C, grades from column D
//
// A lesson column is shown when it has a type other than "-" or a date;
// a blank grade cell renders as "пусто".
const (
	nameColumn       = 2 // C
	firstGradeColumn = 3 // D
	headerRows       = 2
)

// ParseStudentGrades extracts one student's row from a sheet grid.
// Returns nil when the grid is too short or the student row is missing.
func ParseStudentGrades(values [][]string, sheetName, studentName string) *model.SubjectGrades {
	if len(values) <= headerRows {
		return nil
	}

	subject := sheetName
	if len(values[0]) > 0 && values[0][0] != "" {
		subject = values[0][0]
	}

	lessonTypes := tail(values[0], firstGradeColumn)
	lessonDates := tail(values[1], firstGradeColumn)

	target := strings.TrimSpace(studentName)
	var studentRow []string
	for _, row := range values[headerRows:] {
		if len(row) > nameColumn && strings.TrimSpace(row[nameColumn]) == target {
			studentRow = row
			break
		}
	}
	if studentRow == nil {
		return nil
	}

	grades := tail(studentRow, firstGradeColumn)

	maxCols := len(lessonTypes)
	if len(lessonDates) > maxCols {
		maxCols = len(lessonDates)
	}

	entries := make([]model.GradeEntry, 0, maxCols)
	for i := 0; i < maxCols; i++ {
		lessonType := at(lessonTypes, i)
		lessonDate := at(lessonDates, i)

		cleanType := strings.TrimSpace(lessonType)
		if (cleanType == "" || cleanType == "-") && lessonDate == "" {
			continue
		}

		grade := at(grades, i)
		if grade == "" {
			grade = "пусто"
		}

		entries = append(entries, model.GradeEntry{
			LessonType: lessonType,
			LessonDate: lessonDate,
			Grade:      grade,
		})
	}

	return &model.SubjectGrades{
		Subject:     subject,
		StudentName: studentName,
		Grades:      entries,
	}
}

func tail(row []string, from int) []string {
	if len(row) <= from {
		return nil
	}
	return row[from:]
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
