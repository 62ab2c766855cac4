package notify

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
)

// memStore is an in-memory EventStore for tests.
type memStore struct {
	events []model.GradeEvent
}

func (s *memStore) Unprocessed(ctx context.Context) ([]model.GradeEvent, error) {
	var out []model.GradeEvent
	for _, e := range s.events {
		if !e.Processed {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) MarkProcessed(ctx context.Context, eventID int64) error {
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].Processed = true
		}
	}
	return nil
}

func (s *memStore) processed(id int64) bool {
	for _, e := range s.events {
		if e.ID == id {
			return e.Processed
		}
	}
	return false
}

// memRoster maps "name/group" to a student.
type memRoster struct {
	students map[string]*model.Student
}

func rosterKey(name string, groupID int) string {
	return fmt.Sprintf("%s/%d", name, groupID)
}

func (r *memRoster) FindByName(ctx context.Context, fullName string, groupID int) (*model.Student, error) {
	s, ok := r.students[rosterKey(strings.TrimSpace(fullName), groupID)]
	if !ok {
		return nil, repository.ErrStudentNotFound
	}
	return s, nil
}

func (r *memRoster) ListNamesByGroup(ctx context.Context, groupID int) ([]string, error) {
	return nil, nil
}

// scriptedChannel records sends and answers from a per-chat script.
type scriptedChannel struct {
	results map[string]bool // chatID → success
	sent    []string        // chatIDs in attempt order
}

func (c *scriptedChannel) Send(ctx context.Context, chatID, text string) bool {
	c.sent = append(c.sent, chatID)
	ok, found := c.results[chatID]
	return found && ok
}

func newOrchestratorForTest(store *memStore, roster *memRoster, ch *scriptedChannel) *Orchestrator {
	return NewOrchestrator(store, roster, ch, zerolog.Nop())
}

func event(id int64, name string, groupID int) model.GradeEvent {
	nine := "9"
	return model.GradeEvent{
		ID:              id,
		GroupID:         groupID,
		StudentFullName: name,
		Subject:         "Математика",
		NewValue:        &nine,
	}
}

func TestProcessPending_AllRecipientsSucceed(t *testing.T) {
	st, fa, mo := "100", "200", "300"
	store := &memStore{events: []model.GradeEvent{event(1, "Іваненко Іван", 1)}}
	roster := &memRoster{students: map[string]*model.Student{
		rosterKey("Іваненко Іван", 1): {ID: 1, StudentChatID: &st, FatherChatID: &fa, MotherChatID: &mo},
	}}
	ch := &scriptedChannel{results: map[string]bool{"100": true, "200": true, "300": true}}

	if err := newOrchestratorForTest(store, roster, ch).ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !store.processed(1) {
		t.Error("event should be processed when all deliveries succeed")
	}
	if len(ch.sent) != 3 {
		t.Fatalf("expected 3 delivery attempts, got %d", len(ch.sent))
	}
	// Deterministic order: student, father, mother.
	for i, want := range []string{"100", "200", "300"} {
		if ch.sent[i] != want {
			t.Errorf("attempt %d went to %s, want %s", i, ch.sent[i], want)
		}
	}
}

func TestProcessPending_AtLeastOneSuccessMarksProcessed(t *testing.T) {
	fa, mo := "200", "300"
	store := &memStore{events: []model.GradeEvent{event(1, "Іваненко Іван", 1)}}
	roster := &memRoster{students: map[string]*model.Student{
		rosterKey("Іваненко Іван", 1): {ID: 1, FatherChatID: &fa, MotherChatID: &mo},
	}}
	// Father delivery succeeds, mother delivery fails.
	ch := &scriptedChannel{results: map[string]bool{"200": true, "300": false}}

	if err := newOrchestratorForTest(store, roster, ch).ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !store.processed(1) {
		t.Error("one successful delivery must mark the event processed")
	}
	if len(ch.sent) != 2 {
		t.Errorf("mother attempt must not be skipped after father success, got %d attempts", len(ch.sent))
	}
}

func TestProcessPending_AllDeliveriesFailLeavesUnprocessed(t *testing.T) {
	st := "100"
	store := &memStore{events: []model.GradeEvent{event(1, "Іваненко Іван", 1)}}
	roster := &memRoster{students: map[string]*model.Student{
		rosterKey("Іваненко Іван", 1): {ID: 1, StudentChatID: &st},
	}}
	ch := &scriptedChannel{results: map[string]bool{"100": false}}
	orch := newOrchestratorForTest(store, roster, ch)

	if err := orch.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.processed(1) {
		t.Error("event must stay unprocessed when every delivery fails")
	}

	// The transport recovers; the next pass retries and drains the event.
	ch.results["100"] = true
	if err := orch.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !store.processed(1) {
		t.Error("retry pass should process the event once delivery succeeds")
	}
}

func TestProcessPending_UnmatchedStudentPersistsForever(t *testing.T) {
	store := &memStore{events: []model.GradeEvent{event(1, "Невідомий Студент", 1)}}
	roster := &memRoster{students: map[string]*model.Student{}}
	ch := &scriptedChannel{results: map[string]bool{}}
	orch := newOrchestratorForTest(store, roster, ch)

	for pass := 0; pass < 5; pass++ {
		if err := orch.ProcessPending(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if store.processed(1) {
		t.Error("event for an unmatched student must never be marked processed")
	}
	if len(ch.sent) != 0 {
		t.Errorf("no deliveries expected for an unmatched student, got %d", len(ch.sent))
	}
}

func TestProcessPending_ZeroRecipientsLeavesUnprocessed(t *testing.T) {
	store := &memStore{events: []model.GradeEvent{event(1, "Іваненко Іван", 1)}}
	// Found in roster, but nobody registered with the bot yet.
	roster := &memRoster{students: map[string]*model.Student{
		rosterKey("Іваненко Іван", 1): {ID: 1},
	}}
	ch := &scriptedChannel{results: map[string]bool{}}

	if err := newOrchestratorForTest(store, roster, ch).ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}

	if store.processed(1) {
		t.Error("event with zero recipients must stay unprocessed")
	}
}

func TestProcessPending_OneBadEventDoesNotBlockOthers(t *testing.T) {
	st := "100"
	store := &memStore{events: []model.GradeEvent{
		event(1, "Невідомий Студент", 1),
		event(2, "Іваненко Іван", 1),
	}}
	roster := &memRoster{students: map[string]*model.Student{
		rosterKey("Іваненко Іван", 1): {ID: 2, StudentChatID: &st},
	}}
	ch := &scriptedChannel{results: map[string]bool{"100": true}}

	if err := newOrchestratorForTest(store, roster, ch).ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}

	if store.processed(1) {
		t.Error("unmatched event must stay unprocessed")
	}
	if !store.processed(2) {
		t.Error("later event must be processed despite an earlier unmatched one")
	}
}

func TestMarkProcessed_Idempotent(t *testing.T) {
	store := &memStore{events: []model.GradeEvent{event(1, "Іваненко Іван", 1)}}

	ctx := context.Background()
	if err := store.MarkProcessed(ctx, 1); err != nil {
		t.Fatal(err)
	}
	first, _ := store.Unprocessed(ctx)
	if err := store.MarkProcessed(ctx, 1); err != nil {
		t.Fatal(err)
	}
	second, _ := store.Unprocessed(ctx)

	if len(first) != 0 || len(second) != 0 {
		t.Error("marking twice must leave the store identical to marking once")
	}
}
