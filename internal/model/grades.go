package model

// GradeEntry is one lesson column of a student's row in the journal sheet.
// Grade is the display value; blank cells render as "пусто".
type GradeEntry struct {
	LessonType string `json:"lesson_type"`
	LessonDate string `json:"lesson_date"`
	Grade      string `json:"grade"`
}

// SubjectGrades is a student's full row for one subject sheet.
type SubjectGrades struct {
	Subject     string       `json:"subject"`
	StudentName string       `json:"student_name"`
	Grades      []GradeEntry `json:"grades"`
}

// Subject is one selectable subject tab on the dashboard.
type Subject struct {
	Name string `json:"name"`
}
