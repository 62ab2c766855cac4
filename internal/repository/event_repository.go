package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvitly/gradewatch-backend/internal/model"
)

// EventRepository is the durable grade-event log. Rows are append-only: the
// only permitted mutation is flipping processed from false to true, and
// nothing ever deletes an event.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Append inserts a new unprocessed event and fills in its assigned ID and
// creation timestamp. Content is not validated here — the ingestion endpoint
// rejects malformed payloads before they reach the store.
func (r *EventRepository) Append(ctx context.Context, e *model.GradeEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO grade_events
		 (group_id, student_full_name, subject, lesson_type, lesson_date,
		  column_letter, row_index, old_value, new_value, sheet_edited_at, processed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)
		 RETURNING id, created_at`,
		e.GroupID, e.StudentFullName, e.Subject, e.LessonType, e.LessonDate,
		e.ColumnLetter, e.RowIndex, e.OldValue, e.NewValue, e.SheetEditedAt,
	).Scan(&e.ID, &e.CreatedAt)
}

// Unprocessed returns the backlog oldest-first, so a pass drains events in
// arrival order.
func (r *EventRepository) Unprocessed(ctx context.Context) ([]model.GradeEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, group_id, student_full_name, subject, lesson_type, lesson_date,
		        column_letter, row_index, old_value, new_value, sheet_edited_at,
		        processed, created_at
		 FROM grade_events
		 WHERE processed = FALSE
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.GradeEvent
	for rows.Next() {
		var e model.GradeEvent
		if err := rows.Scan(
			&e.ID, &e.GroupID, &e.StudentFullName, &e.Subject, &e.LessonType, &e.LessonDate,
			&e.ColumnLetter, &e.RowIndex, &e.OldValue, &e.NewValue, &e.SheetEditedAt,
			&e.Processed, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkProcessed flips the processed flag. Idempotent: marking an
// already-processed event is a no-op.
func (r *EventRepository) MarkProcessed(ctx context.Context, eventID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE grade_events SET processed = TRUE WHERE id = $1`, eventID,
	)
	return err
}
