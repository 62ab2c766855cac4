package model

import "time"

// GradeEvent is one observed change to one grade cell, as reported by the
// spreadsheet edit trigger. Every field except Processed is immutable once
// the row is inserted; events are never deleted so the table doubles as an
// audit trail.
type GradeEvent struct {
	ID              int64     `json:"id"`
	GroupID         int       `json:"group_id"`
	StudentFullName string    `json:"student_full_name"`
	Subject         string    `json:"subject"`
	LessonType      *string   `json:"lesson_type,omitempty"`
	LessonDate      *string   `json:"lesson_date,omitempty"`
	ColumnLetter    *string   `json:"column_letter,omitempty"`
	RowIndex        *int      `json:"row_index,omitempty"`
	OldValue        *string   `json:"old_value,omitempty"`
	NewValue        *string   `json:"new_value,omitempty"`
	SheetEditedAt   *string   `json:"sheet_edited_at,omitempty"`
	Processed       bool      `json:"processed"`
	CreatedAt       time.Time `json:"created_at"`
}

// GradeWebhookRequest is the payload posted by the Apps Script trigger on
// every cell edit. Field names mirror what the script sends.
type GradeWebhookRequest struct {
	SpreadsheetID string  `json:"spreadsheetId" binding:"required"`
	SheetName     string  `json:"sheetName" binding:"required"`
	StudentName   string  `json:"studentName" binding:"required"`
	Subject       string  `json:"subject" binding:"required"`
	LessonType    *string `json:"lessonType"`
	LessonDate    *string `json:"lessonDate"`
	ColumnLetter  *string `json:"columnLetter"`
	RowIndex      *int    `json:"rowIndex"`
	OldValue      *string `json:"oldValue"`
	NewValue      *string `json:"newValue"`
	Timestamp     *string `json:"timestamp"`
}

// GradeWebhookResponse is returned on successful ingestion.
type GradeWebhookResponse struct {
	Status  string `json:"status"`
	EventID int64  `json:"event_id"`
}
