package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
)

var _ repository.GroupRepository = (*DB)(nil)

const groupColumns = `id, title, slug, description, created_at`

func scanGroup(row interface{ Scan(...any) error }, g *model.Group) error {
	return row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt)
}

// CreateGroup inserts a group. A duplicate slug is apperror.ErrConflict.
func (db *DB) CreateGroup(ctx context.Context, group *model.Group) error {
	group.ID = xid.New().String()
	group.CreatedAt = db.now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO post_groups (id, title, slug, description, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		group.ID,
		group.Title,
		group.Slug,
		group.Description,
		group.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("group", group.Slug)
		}
		return fmt.Errorf("sqlite: creating group %q: %w", group.Slug, err)
	}

	return nil
}

func (db *DB) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	err := scanGroup(db.conn.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM post_groups WHERE id = ?`, id,
	), &g)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("group", id)
		}
		return nil, fmt.Errorf("sqlite: getting group %s: %w", id, err)
	}
	return &g, nil
}

func (db *DB) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var g model.Group
	err := scanGroup(db.conn.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM post_groups WHERE slug = ?`, slug,
	), &g)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("group", slug)
		}
		return nil, fmt.Errorf("sqlite: getting group %q: %w", slug, err)
	}
	return &g, nil
}

// ListGroups returns every group ordered by title, for the post form's
// group selector and the admin CLI.
func (db *DB) ListGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM post_groups ORDER BY title, slug`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing groups: %w", err)
	}
	defer rows.Close()

	groups := make([]model.Group, 0)
	for rows.Next() {
		var g model.Group
		if err := scanGroup(rows, &g); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating groups: %w", err)
	}

	return groups, nil
}
