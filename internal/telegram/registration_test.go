package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
)

type memStateStore struct {
	states map[int64]DialogueState
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[int64]DialogueState)}
}

func (s *memStateStore) Get(ctx context.Context, chatID int64) (*DialogueState, error) {
	state, ok := s.states[chatID]
	if !ok {
		return nil, ErrNoState
	}
	return &state, nil
}

func (s *memStateStore) Set(ctx context.Context, chatID int64, state *DialogueState) error {
	s.states[chatID] = *state
	return nil
}

func (s *memStateStore) Clear(ctx context.Context, chatID int64) error {
	delete(s.states, chatID)
	return nil
}

type binding struct {
	studentID int
	role      model.RecipientRole
	chatID    string
}

type fakeRoster struct {
	students map[string]*model.Student // "name/groupID"
	bound    []binding
	bindErr  error
}

func rosterKey(name string, groupID int) string {
	return fmt.Sprintf("%s/%d", name, groupID)
}

func (f *fakeRoster) FindByName(ctx context.Context, fullName string, groupID int) (*model.Student, error) {
	s, ok := f.students[rosterKey(fullName, groupID)]
	if !ok {
		return nil, repository.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeRoster) BindChatID(ctx context.Context, studentID int, role model.RecipientRole, chatID string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = append(f.bound, binding{studentID, role, chatID})
	return nil
}

type fakeGroupList struct {
	groups []model.Group
}

func (f *fakeGroupList) List(ctx context.Context) ([]model.Group, error) {
	return f.groups, nil
}

func newTestRegistrar(roster *fakeRoster, groups *fakeGroupList) (*Registrar, *memStateStore) {
	states := newMemStateStore()
	return NewRegistrar(states, roster, groups, zerolog.Nop()), states
}

func defaultFixtures() (*fakeRoster, *fakeGroupList) {
	roster := &fakeRoster{students: map[string]*model.Student{
		rosterKey("Петренко Іван Олегович", 1): {ID: 42, GroupID: 1, FullName: "Петренко Іван Олегович"},
	}}
	groups := &fakeGroupList{groups: []model.Group{
		{ID: 1, Name: "П-21", SpreadsheetID: "S1"},
		{ID: 2, Name: "П-22", SpreadsheetID: "S2"},
	}}
	return roster, groups
}

func TestRegistration_FullHappyPath(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	reg, states := newTestRegistrar(roster, groups)
	const chat = int64(777)

	reply := reg.HandleMessage(ctx, chat, "/start")
	if len(reply.Keyboard) != 3 {
		t.Fatalf("expected 3 role buttons, got %v", reply.Keyboard)
	}
	if reply.Keyboard[0] != "студент" {
		t.Errorf("first role must be студент, got %q", reply.Keyboard[0])
	}

	reply = reg.HandleMessage(ctx, chat, "батько")
	if len(reply.Keyboard) != 2 || reply.Keyboard[0] != "П-21" {
		t.Fatalf("expected group keyboard, got %v", reply.Keyboard)
	}

	reply = reg.HandleMessage(ctx, chat, "П-21")
	if !reply.RemoveKeyboard {
		t.Error("name prompt must remove the keyboard")
	}
	if !strings.Contains(reply.Text, "ПІБ") {
		t.Errorf("expected full-name prompt, got %q", reply.Text)
	}

	reply = reg.HandleMessage(ctx, chat, "Петренко Іван Олегович")
	if !strings.Contains(reply.Text, "Успішно") {
		t.Fatalf("expected success reply, got %q", reply.Text)
	}

	if len(roster.bound) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(roster.bound))
	}
	b := roster.bound[0]
	if b.studentID != 42 || b.role != model.RoleFather || b.chatID != "777" {
		t.Errorf("unexpected binding: %+v", b)
	}

	if _, err := states.Get(ctx, chat); err != ErrNoState {
		t.Error("dialogue state must be cleared after completion")
	}
}

func TestRegistration_InvalidRoleReprompts(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	reg, _ := newTestRegistrar(roster, groups)
	const chat = int64(1)

	reg.HandleMessage(ctx, chat, "/start")
	reply := reg.HandleMessage(ctx, chat, "вчитель")
	if !strings.Contains(reply.Text, "роль") {
		t.Errorf("expected role reprompt, got %q", reply.Text)
	}

	// The dialogue stays at the role step and accepts a valid choice.
	reply = reg.HandleMessage(ctx, chat, "мати")
	if len(reply.Keyboard) != 2 {
		t.Errorf("expected group keyboard after valid role, got %v", reply.Keyboard)
	}
}

func TestRegistration_UnknownGroupReprompts(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	reg, _ := newTestRegistrar(roster, groups)
	const chat = int64(2)

	reg.HandleMessage(ctx, chat, "/start")
	reg.HandleMessage(ctx, chat, "студент")
	reply := reg.HandleMessage(ctx, chat, "П-99")
	if !strings.Contains(reply.Text, "групу") {
		t.Errorf("expected group reprompt, got %q", reply.Text)
	}
}

func TestRegistration_UnknownNameEndsDialogue(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	reg, states := newTestRegistrar(roster, groups)
	const chat = int64(3)

	reg.HandleMessage(ctx, chat, "/start")
	reg.HandleMessage(ctx, chat, "студент")
	reg.HandleMessage(ctx, chat, "П-21")
	reply := reg.HandleMessage(ctx, chat, "Невідомий Хтось")
	if !strings.Contains(reply.Text, "не знайдено") {
		t.Fatalf("expected not-found reply, got %q", reply.Text)
	}
	if len(roster.bound) != 0 {
		t.Error("no binding may be made for an unknown name")
	}
	if _, err := states.Get(ctx, chat); err != ErrNoState {
		t.Error("dialogue state must be cleared after a failed lookup")
	}
}

func TestRegistration_RoleAlreadyBound(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	roster.bindErr = repository.ErrRoleAlreadyBound
	reg, _ := newTestRegistrar(roster, groups)
	const chat = int64(4)

	reg.HandleMessage(ctx, chat, "/start")
	reg.HandleMessage(ctx, chat, "мати")
	reg.HandleMessage(ctx, chat, "П-21")
	reply := reg.HandleMessage(ctx, chat, "Петренко Іван Олегович")
	if !strings.Contains(reply.Text, "Вже зареєстровано") {
		t.Errorf("expected already-registered reply, got %q", reply.Text)
	}
}

func TestRegistration_ChangeRoleRestartsDialogue(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	reg, _ := newTestRegistrar(roster, groups)
	const chat = int64(5)

	reg.HandleMessage(ctx, chat, "/start")
	reg.HandleMessage(ctx, chat, "студент")

	// Mid-dialogue restart goes back to the role keyboard.
	reply := reg.HandleMessage(ctx, chat, "/change_role")
	if len(reply.Keyboard) != 3 {
		t.Errorf("expected role keyboard after /change_role, got %v", reply.Keyboard)
	}
}

func TestRegistration_IdleChatGetsHint(t *testing.T) {
	ctx := context.Background()
	roster, groups := defaultFixtures()
	reg, _ := newTestRegistrar(roster, groups)

	reply := reg.HandleMessage(ctx, 6, "привіт")
	if !strings.Contains(reply.Text, "/start") {
		t.Errorf("expected /start hint for an idle chat, got %q", reply.Text)
	}
}

func TestRegistration_NoGroupsConfigured(t *testing.T) {
	ctx := context.Background()
	roster := &fakeRoster{students: map[string]*model.Student{}}
	reg, states := newTestRegistrar(roster, &fakeGroupList{})
	const chat = int64(7)

	reg.HandleMessage(ctx, chat, "/start")
	reply := reg.HandleMessage(ctx, chat, "студент")
	if !strings.Contains(reply.Text, "групи ще не додані") {
		t.Fatalf("expected no-groups reply, got %q", reply.Text)
	}
	if _, err := states.Get(ctx, chat); err != ErrNoState {
		t.Error("dialogue must end when no groups exist")
	}
}
