package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

// Page size bounds for ListPosts. Callers normally pass the configured
// page size; these only stop a runaway query.
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// postSelect joins the author and (optional) group so a listing needs a
// single query. The LEFT JOIN yields NULL group columns for ungrouped posts.
const postSelect = `
	SELECT p.id, p.text, p.pub_date, p.author_id, COALESCE(p.group_id, ''), p.image,
	       u.username,
	       g.title, g.slug, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id`

// postOrder is the default listing order: newest first. rowid breaks ties
// between posts created within the same clock tick.
const postOrder = ` ORDER BY p.pub_date DESC, p.rowid DESC`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var (
		p                        model.Post
		username                 string
		title, slug, description sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &p.GroupID, &p.Image,
		&username,
		&title, &slug, &description,
	)
	if err != nil {
		return p, err
	}

	p.Author = &model.User{ID: p.AuthorID, Username: username}
	if p.GroupID != "" {
		p.Group = &model.Group{
			ID:          p.GroupID,
			Title:       title.String,
			Slug:        slug.String,
			Description: description.String,
		}
	}
	return p, nil
}

// whereClause renders a PostFilter as SQL conditions plus arguments.
func whereClause(f repository.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.GroupID != "" {
		conds = append(conds, "p.group_id = ?")
		args = append(args, f.GroupID)
	}
	if f.AuthorID != "" {
		conds = append(conds, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.FollowerID != "" {
		conds = append(conds, "p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)")
		args = append(args, f.FollowerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CreatePost inserts a post. ID and PubDate are assigned here and written
// back into post.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.PubDate = db.now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, text, pub_date, author_id, group_id, image)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Text,
		post.PubDate,
		post.AuthorID,
		nullString(post.GroupID),
		post.Image,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetPostByID returns the post with its author and group populated.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	p, err := scanPost(db.conn.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}
	return &p, nil
}

// UpdatePost rewrites the editable fields: text, group and image.
// Author and pub_date never change.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?`,
		post.Text,
		nullString(post.GroupID),
		post.Image,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// DeletePost removes a post; its comments go with it (ON DELETE CASCADE).
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// CountPosts returns how many posts match filter. The paginator needs it to
// know the number of pages.
func (db *DB) CountPosts(ctx context.Context, filter repository.PostFilter) (int, error) {
	where, args := whereClause(filter)

	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}
	return n, nil
}

// ListPosts returns one window of the posts matching filter, newest first.
func (db *DB) ListPosts(ctx context.Context, filter repository.PostFilter, opts repository.ListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	where, args := whereClause(filter)
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, postSelect+where+postOrder+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
