package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
)

// GroupResolver resolves the spreadsheet identifier sent by the edit trigger.
type GroupResolver interface {
	GetBySpreadsheetID(ctx context.Context, spreadsheetID string) (*model.Group, error)
}

// EventAppender appends one grade event to the durable log.
type EventAppender interface {
	Append(ctx context.Context, e *model.GradeEvent) error
}

// PassRunner runs one notification pass over the backlog.
type PassRunner interface {
	ProcessPending(ctx context.Context) error
}

// IngestService converts validated webhook payloads into stored grade
// events and kicks off a notification pass for each one.
type IngestService struct {
	groups GroupResolver
	events EventAppender
	orch   PassRunner
	log    zerolog.Logger
}

// NewIngestService creates a new IngestService.
func NewIngestService(groups GroupResolver, events EventAppender, orch PassRunner, log zerolog.Logger) *IngestService {
	return &IngestService{
		groups: groups,
		events: events,
		orch:   orch,
		log:    log.With().Str("component", "ingest_service").Logger(),
	}
}

// Ingest stores one cell-change notification and synchronously runs a
// notification pass. Rapid repeated edits of the same cell produce separate
// events — deduplication is deliberately absent, the event log is an audit
// trail.
//
// Errors: repository.ErrGroupNotFound for an unknown spreadsheet; anything
// else is a storage failure the caller maps to 500 (the edit trigger
// retries the HTTP call).
func (s *IngestService) Ingest(ctx context.Context, req *model.GradeWebhookRequest) (int64, error) {
	group, err := s.groups.GetBySpreadsheetID(ctx, req.SpreadsheetID)
	if err != nil {
		return 0, fmt.Errorf("resolve spreadsheet %s: %w", req.SpreadsheetID, err)
	}

	event := &model.GradeEvent{
		GroupID:         group.ID,
		StudentFullName: req.StudentName,
		Subject:         req.Subject,
		LessonType:      req.LessonType,
		LessonDate:      req.LessonDate,
		ColumnLetter:    req.ColumnLetter,
		RowIndex:        req.RowIndex,
		OldValue:        req.OldValue,
		NewValue:        req.NewValue,
		SheetEditedAt:   req.Timestamp,
	}

	if err := s.events.Append(ctx, event); err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}

	s.log.Info().
		Int64("event_id", event.ID).
		Int("group_id", group.ID).
		Str("student", event.StudentFullName).
		Str("subject", event.Subject).
		Msg("Grade event created")

	// The pass covers the whole backlog, so earlier stuck events get a
	// retry on every ingestion too. A pass failure does not fail the
	// ingestion — the event is stored and the worker will pick it up.
	if err := s.orch.ProcessPending(ctx); err != nil {
		s.log.Error().Err(err).Msg("Notification pass failed after ingest")
	}

	return event.ID, nil
}
