package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvitly/gradewatch-backend/internal/model"
)

// ErrGroupNotFound means no group is mapped to the given key.
var ErrGroupNotFound = errors.New("group not found")

// GroupRepository handles group data access. Groups are created by the seed
// tool and read-only to the pipeline.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func scanGroup(row pgx.Row) (*model.Group, error) {
	g := &model.Group{}
	err := row.Scan(&g.ID, &g.Name, &g.SpreadsheetID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id int) (*model.Group, error) {
	return scanGroup(r.pool.QueryRow(ctx,
		`SELECT id, name, spreadsheet_id, created_at FROM groups WHERE id = $1`, id,
	))
}

// GetBySpreadsheetID resolves the spreadsheet identifier sent by the edit
// trigger to a group.
func (r *GroupRepository) GetBySpreadsheetID(ctx context.Context, spreadsheetID string) (*model.Group, error) {
	return scanGroup(r.pool.QueryRow(ctx,
		`SELECT id, name, spreadsheet_id, created_at FROM groups WHERE spreadsheet_id = $1`,
		spreadsheetID,
	))
}

// List returns all groups ordered by name. Used by the bot's group keyboard.
func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, spreadsheet_id, created_at FROM groups ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.SpreadsheetID, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Create inserts a new group. Used by the seed tool.
func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO groups (name, spreadsheet_id) VALUES ($1, $2)
		 RETURNING id, created_at`,
		g.Name, g.SpreadsheetID,
	).Scan(&g.ID, &g.CreatedAt)
}
