package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
)

// Dialogue steps. A chat with no stored state is idle; /start moves it to
// stepRole and the dialogue walks forward until it binds a chat ID or bails.
const (
	stepRole  = "choosing_role"
	stepGroup = "choosing_group"
	stepName  = "entering_full_name"
)

// DialogueState is a chat's position in the registration dialogue.
type DialogueState struct {
	Step    string `json:"step"`
	Role    string `json:"role"`
	GroupID int    `json:"group_id"`
}

// StateStore persists dialogue state per chat. ErrNoState when the chat is idle.
type StateStore interface {
	Get(ctx context.Context, chatID int64) (*DialogueState, error)
	Set(ctx context.Context, chatID int64, state *DialogueState) error
	Clear(ctx context.Context, chatID int64) error
}

// ErrNoState means the chat has no dialogue in progress.
var ErrNoState = errors.New("no dialogue state")

// RosterBinder is the roster slice the dialogue needs: exact-name lookup
// and one-time chat binding.
type RosterBinder interface {
	FindByName(ctx context.Context, fullName string, groupID int) (*model.Student, error)
	BindChatID(ctx context.Context, studentID int, role model.RecipientRole, chatID string) error
}

// GroupLister lists groups for the group keyboard.
type GroupLister interface {
	List(ctx context.Context) ([]model.Group, error)
}

// Reply is what the bot should send back: text plus an optional one-column
// reply keyboard. RemoveKeyboard clears a previously shown keyboard.
type Reply struct {
	Text           string
	Keyboard       []string
	RemoveKeyboard bool
}

// Registrar drives the registration dialogue. It is transport-free: the bot
// feeds it (chatID, text) pairs and sends whatever Reply comes back, which
// keeps the whole state machine testable without Telegram.
type Registrar struct {
	states StateStore
	roster RosterBinder
	groups GroupLister
	log    zerolog.Logger
}

// NewRegistrar creates a new Registrar.
func NewRegistrar(states StateStore, roster RosterBinder, groups GroupLister, log zerolog.Logger) *Registrar {
	return &Registrar{
		states: states,
		roster: roster,
		groups: groups,
		log:    log.With().Str("component", "registrar").Logger(),
	}
}

// HandleMessage advances one chat's dialogue by one message.
func (r *Registrar) HandleMessage(ctx context.Context, chatID int64, text string) Reply {
	text = strings.TrimSpace(text)

	// /start and /change_role both (re)enter the dialogue from the top.
	if text == "/start" || text == "/change_role" {
		return r.beginDialogue(ctx, chatID)
	}

	state, err := r.states.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrNoState) {
			return Reply{Text: "Надішліть /start, щоб розпочати реєстрацію."}
		}
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("State read failed")
		return Reply{Text: "Сталася помилка. Спробуйте пізніше."}
	}

	switch state.Step {
	case stepRole:
		return r.handleRole(ctx, chatID, state, text)
	case stepGroup:
		return r.handleGroup(ctx, chatID, state, text)
	case stepName:
		return r.handleFullName(ctx, chatID, state, text)
	default:
		_ = r.states.Clear(ctx, chatID)
		return Reply{Text: "Надішліть /start, щоб розпочати реєстрацію."}
	}
}

func (r *Registrar) beginDialogue(ctx context.Context, chatID int64) Reply {
	if err := r.states.Set(ctx, chatID, &DialogueState{Step: stepRole}); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("State write failed")
		return Reply{Text: "Сталася помилка. Спробуйте пізніше."}
	}
	return Reply{
		Text:     "Привіт! Оберіть вашу роль:",
		Keyboard: []string{string(model.RoleStudent), string(model.RoleFather), string(model.RoleMother)},
	}
}

func (r *Registrar) handleRole(ctx context.Context, chatID int64, state *DialogueState, text string) Reply {
	role := model.RecipientRole(strings.ToLower(text))
	if !role.Valid() {
		return Reply{Text: "Будь ласка, оберіть роль з клавіатури."}
	}

	groups, err := r.groups.List(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Group list failed")
		return Reply{Text: "Сталася помилка. Спробуйте пізніше."}
	}
	if len(groups) == 0 {
		_ = r.states.Clear(ctx, chatID)
		return Reply{
			Text:           "На жаль, групи ще не додані до системи. Зверніться до адміністратора.",
			RemoveKeyboard: true,
		}
	}

	state.Role = string(role)
	state.Step = stepGroup
	if err := r.states.Set(ctx, chatID, state); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("State write failed")
		return Reply{Text: "Сталася помилка. Спробуйте пізніше."}
	}

	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return Reply{Text: "Оберіть вашу групу:", Keyboard: names}
}

func (r *Registrar) handleGroup(ctx context.Context, chatID int64, state *DialogueState, text string) Reply {
	groups, err := r.groups.List(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Group list failed")
		return Reply{Text: "Сталася помилка. Спробуйте пізніше."}
	}

	var selected *model.Group
	for i := range groups {
		if groups[i].Name == text {
			selected = &groups[i]
			break
		}
	}
	if selected == nil {
		return Reply{Text: "Будь ласка, оберіть групу з клавіатури."}
	}

	state.GroupID = selected.ID
	state.Step = stepName
	if err := r.states.Set(ctx, chatID, state); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("State write failed")
		return Reply{Text: "Сталася помилка. Спробуйте пізніше."}
	}

	return Reply{
		Text:           "Введіть ваше ПІБ рівно як у журналі (строго):",
		RemoveKeyboard: true,
	}
}

func (r *Registrar) handleFullName(ctx context.Context, chatID int64, state *DialogueState, text string) Reply {
	// The dialogue ends here whatever happens; a retry starts over with /start.
	defer func() {
		_ = r.states.Clear(ctx, chatID)
	}()

	student, err := r.roster.FindByName(ctx, text, state.GroupID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return Reply{Text: "Студента з таким ПІБ у цій групі не знайдено. " +
				"Перевірте написання або зверніться до адміністратора."}
		}
		r.log.Error().Err(err).Msg("Roster lookup failed")
		return Reply{Text: "Сталася помилка при реєстрації. Спробуйте пізніше."}
	}

	err = r.roster.BindChatID(ctx, student.ID, model.RecipientRole(state.Role), strconv.FormatInt(chatID, 10))
	if err != nil {
		if errors.Is(err, repository.ErrRoleAlreadyBound) {
			return Reply{Text: "Вже зареєстровано. Якщо це ваш інший акаунт, зв'яжіться з адміністратором."}
		}
		r.log.Error().Err(err).Int("student_id", student.ID).Msg("Chat bind failed")
		return Reply{Text: "Сталася помилка при реєстрації. Спробуйте пізніше."}
	}

	r.log.Info().
		Int("student_id", student.ID).
		Str("role", state.Role).
		Int64("chat_id", chatID).
		Msg("Recipient registered")

	return Reply{Text: "Успішно зареєстровано. Ви будете отримувати сповіщення."}
}
