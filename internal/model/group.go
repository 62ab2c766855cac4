package model

import "time"

// Group is a student cohort tied to exactly one Google spreadsheet.
// Groups are created out-of-band (seed tool) and read-only to the pipeline.
type Group struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	SpreadsheetID string    `json:"spreadsheet_id"`
	CreatedAt     time.Time `json:"created_at"`
}
