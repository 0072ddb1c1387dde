// Package repository declares the storage capabilities the services rely on.
//
// Services depend on these interfaces, never on a concrete database. The
// SQLite implementation lives in repository/sqlite; tests substitute fakes.
package repository

import (
	"context"

	"github.com/sakif/yatube/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// PostFilter narrows a post listing. Empty fields are ignored; set fields
// are combined with AND.
type PostFilter struct {
	GroupID    string // posts published into this group
	AuthorID   string // posts written by this user
	FollowerID string // posts by authors this user follows
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroupByID(ctx context.Context, id string) (*model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
	CountPosts(ctx context.Context, filter PostFilter) (int, error)
	ListPosts(ctx context.Context, filter PostFilter, opts ListOptions) ([]model.Post, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

// FollowRepository stores follower → author edges.
//
// Follow is get-or-create: it reports created=false when the edge already
// existed. Unfollow reports whether an edge was removed and is not an error
// when nothing matched.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID string) (created bool, err error)
	Unfollow(ctx context.Context, userID, authorID string) (deleted bool, err error)
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
}
