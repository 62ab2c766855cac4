package model

import "time"

// RecipientRole identifies who a bound Telegram chat belongs to. The values
// are the exact Ukrainian labels shown on the bot's role keyboard.
type RecipientRole string

const (
	RoleStudent RecipientRole = "студент"
	RoleFather  RecipientRole = "батько"
	RoleMother  RecipientRole = "мати"
)

// Valid reports whether the role is one of the three known recipient roles.
func (r RecipientRole) Valid() bool {
	return r == RoleStudent || r == RoleFather || r == RoleMother
}

// Student is a roster entry. FullName is the matching key against the
// spreadsheet and must equal the journal's own spelling exactly. The three
// chat IDs are filled in incrementally as each party registers with the bot;
// a bound chat ID is never silently overwritten.
type Student struct {
	ID            int       `json:"id"`
	FullName      string    `json:"full_name"`
	GroupID       int       `json:"group_id"`
	StudentChatID *string   `json:"student_chat_id,omitempty"`
	FatherChatID  *string   `json:"father_chat_id,omitempty"`
	MotherChatID  *string   `json:"mother_chat_id,omitempty"`
	WebLogin      *string   `json:"web_login,omitempty"`
	WebPassword   *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatID returns the chat bound to the given role, or nil.
func (s *Student) ChatID(role RecipientRole) *string {
	switch role {
	case RoleStudent:
		return s.StudentChatID
	case RoleFather:
		return s.FatherChatID
	case RoleMother:
		return s.MotherChatID
	}
	return nil
}

// LoginRequest is the dashboard login payload.
type LoginRequest struct {
	Login    string `json:"login" binding:"required,min=2,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful dashboard login.
type LoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}
