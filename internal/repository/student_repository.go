package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvitly/gradewatch-backend/internal/model"
)

var (
	// ErrStudentNotFound means no roster entry matched. Expected and
	// non-fatal: journal names drift from roster names all the time.
	ErrStudentNotFound = errors.New("student not found")

	// ErrRoleAlreadyBound means the role's chat ID is already set.
	// Re-registration never overwrites an existing binding.
	ErrRoleAlreadyBound = errors.New("chat already registered for this role")

	ErrUnknownRole = errors.New("unknown recipient role")
)

// StudentRepository handles roster data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, full_name, group_id, student_chat_id, father_chat_id,
	mother_chat_id, web_login, web_password, created_at`

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.FullName, &s.GroupID, &s.StudentChatID, &s.FatherChatID,
		&s.MotherChatID, &s.WebLogin, &s.WebPassword, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

// FindByName looks up a roster entry by exact full name within a group.
// The name is whitespace-trimmed before matching; no fuzzy matching — the
// journal must mirror the roster spelling exactly.
func (r *StudentRepository) FindByName(ctx context.Context, fullName string, groupID int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE full_name = $1 AND group_id = $2`,
		strings.TrimSpace(fullName), groupID,
	))
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id,
	))
}

// FindByWebLogin retrieves a student by dashboard login.
func (r *StudentRepository) FindByWebLogin(ctx context.Context, login string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE web_login = $1`, login,
	))
}

// BindChatID sets the chat ID for a role, only if that role is still unbound.
// Returns ErrRoleAlreadyBound when the column already holds a value.
func (r *StudentRepository) BindChatID(ctx context.Context, studentID int, role model.RecipientRole, chatID string) error {
	var column string
	switch role {
	case model.RoleStudent:
		column = "student_chat_id"
	case model.RoleFather:
		column = "father_chat_id"
	case model.RoleMother:
		column = "mother_chat_id"
	default:
		return ErrUnknownRole
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET `+column+` = $1 WHERE id = $2 AND `+column+` IS NULL`,
		chatID, studentID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleAlreadyBound
	}
	return nil
}

// SetWebCredentials stores a student's dashboard login and password hash.
func (r *StudentRepository) SetWebCredentials(ctx context.Context, studentID int, login, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET web_login = $1, web_password = $2 WHERE id = $3`,
		login, passwordHash, studentID,
	)
	return err
}

// ListNamesByGroup returns all roster names in a group, sorted. Used to log
// the roster when a webhook name fails to match, so spelling drift is
// visible in the logs.
func (r *StudentRepository) ListNamesByGroup(ctx context.Context, groupID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT full_name FROM students WHERE group_id = $1 ORDER BY full_name`, groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Create inserts a new roster entry. Used by the seed tool.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (full_name, group_id) VALUES ($1, $2)
		 RETURNING id, created_at`,
		strings.TrimSpace(s.FullName), s.GroupID,
	).Scan(&s.ID, &s.CreatedAt)
}
