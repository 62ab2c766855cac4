package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
)

// EventStore is the slice of the event log the orchestrator needs.
type EventStore interface {
	Unprocessed(ctx context.Context) ([]model.GradeEvent, error)
	MarkProcessed(ctx context.Context, eventID int64) error
}

// Roster resolves a (name, group) pair to a roster entry.
type Roster interface {
	FindByName(ctx context.Context, fullName string, groupID int) (*model.Student, error)
	ListNamesByGroup(ctx context.Context, groupID int) ([]string, error)
}

// Channel delivers one message to one chat. Implementations must swallow
// transport failures and report false; a false result is retried on the
// next pass, not propagated.
type Channel interface {
	Send(ctx context.Context, chatID, text string) bool
}

// Orchestrator drains the unprocessed event backlog: resolve the student,
// format the message, fan out to every bound recipient, then decide the
// event's fate.
//
// Policy (inherited, deliberate): an event is marked processed as soon as
// ANY recipient delivery succeeds, even if others failed. Retrying such an
// event would re-send to recipients who already got the message, so partial
// failures are logged and dropped. Events whose student cannot be resolved,
// or who has no bound recipients at all, stay unprocessed indefinitely —
// the backlog is the operator's registration-gap report.
type Orchestrator struct {
	events  EventStore
	roster  Roster
	channel Channel
	log     zerolog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(events EventStore, roster Roster, channel Channel, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		events:  events,
		roster:  roster,
		channel: channel,
		log:     log.With().Str("component", "notify_orchestrator").Logger(),
	}
}

// ProcessPending runs one full pass over the backlog, oldest event first.
// Per-event failures never abort the pass; the only returned error is a
// store failure reading the backlog.
func (o *Orchestrator) ProcessPending(ctx context.Context) error {
	events, err := o.events.Unprocessed(ctx)
	if err != nil {
		return fmt.Errorf("load backlog: %w", err)
	}

	if len(events) == 0 {
		return nil
	}
	o.log.Info().Int("pending", len(events)).Msg("Processing pending grade events")

	for i := range events {
		event := &events[i]
		if !o.processEvent(ctx, event) {
			o.log.Warn().Int64("event_id", event.ID).Msg("Event left unprocessed, will retry on next pass")
			continue
		}
		if err := o.events.MarkProcessed(ctx, event.ID); err != nil {
			// Recipients were notified but the flag write failed; the
			// event will be re-sent next pass. At-least-once delivery.
			o.log.Error().Err(err).Int64("event_id", event.ID).Msg("Failed to mark event processed")
		}
	}
	return nil
}

// processEvent notifies every bound recipient of one event and reports
// whether at least one delivery succeeded.
func (o *Orchestrator) processEvent(ctx context.Context, event *model.GradeEvent) bool {
	log := o.log.With().
		Int64("event_id", event.ID).
		Str("student", event.StudentFullName).
		Int("group_id", event.GroupID).
		Logger()

	student, err := o.roster.FindByName(ctx, event.StudentFullName, event.GroupID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			log.Warn().Msg("Student not found in roster")
			o.logRoster(ctx, event.GroupID)
		} else {
			log.Error().Err(err).Msg("Roster lookup failed")
		}
		return false
	}

	message := FormatGradeMessage(event)

	// Deterministic recipient order: student, father, mother. One failed
	// delivery never blocks the remaining attempts.
	recipients := []struct {
		role   model.RecipientRole
		chatID *string
	}{
		{model.RoleStudent, student.StudentChatID},
		{model.RoleFather, student.FatherChatID},
		{model.RoleMother, student.MotherChatID},
	}

	sent, failed := 0, 0
	for _, rcpt := range recipients {
		if rcpt.chatID == nil || *rcpt.chatID == "" {
			continue
		}
		if o.channel.Send(ctx, *rcpt.chatID, message) {
			sent++
		} else {
			failed++
			log.Error().Str("role", string(rcpt.role)).Str("chat_id", *rcpt.chatID).Msg("Delivery failed")
		}
	}

	if sent == 0 && failed == 0 {
		log.Warn().Msg("Student has no registered recipients")
		return false
	}

	log.Info().Int("sent", sent).Int("failed", failed).Msg("Event fan-out finished")
	return sent > 0
}

// logRoster dumps the group's roster at debug level so name drift between
// the journal and the roster can be diagnosed from logs alone.
func (o *Orchestrator) logRoster(ctx context.Context, groupID int) {
	names, err := o.roster.ListNamesByGroup(ctx, groupID)
	if err != nil {
		o.log.Error().Err(err).Int("group_id", groupID).Msg("Failed to list group roster")
		return
	}
	o.log.Debug().Int("group_id", groupID).Strs("roster", names).Msg("Group roster")
}
