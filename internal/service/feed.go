package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/paginate"
	"github.com/sakif/yatube/internal/repository"
)

// Feed is one page of posts, newest first.
type Feed = paginate.Page[model.Post]

// FeedService builds the paginated post listings.
type FeedService struct {
	posts   repository.PostRepository
	groups  repository.GroupRepository
	users   repository.UserRepository
	follows repository.FollowRepository
	perPage int
	logger  *slog.Logger
}

func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	perPage int,
	logger *slog.Logger,
) *FeedService {
	if perPage <= 0 {
		perPage = paginate.DefaultPerPage
	}
	return &FeedService{
		posts:   posts,
		groups:  groups,
		users:   users,
		follows: follows,
		perPage: perPage,
		logger:  logger,
	}
}

// Index returns every post. page is the raw ?page= value.
func (s *FeedService) Index(ctx context.Context, page string) (Feed, error) {
	return s.list(ctx, repository.PostFilter{}, page)
}

// Group returns the group addressed by slug and a page of its posts.
// Unknown slugs are apperror.ErrNotFound.
func (s *FeedService) Group(ctx context.Context, slug, page string) (*model.Group, Feed, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, Feed{}, err
	}

	feed, err := s.list(ctx, repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, Feed{}, err
	}
	return group, feed, nil
}

// Profile is an author's page as seen by one viewer.
type Profile struct {
	Author *model.User
	Posts  Feed

	// Following is true when the viewer already follows Author.
	Following bool
	// IsSelf is true when the viewer is Author. The follow button is hidden.
	IsSelf bool
}

// PostCount is the author's total number of posts, across all pages.
func (p *Profile) PostCount() int {
	return p.Posts.Count
}

// Profile returns username's posts plus the viewer's relation to them.
// viewerID may be empty.
func (s *FeedService) Profile(ctx context.Context, viewerID, username, page string) (*Profile, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	feed, err := s.list(ctx, repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Author: author,
		Posts:  feed,
		IsSelf: viewerID != "" && viewerID == author.ID,
	}
	if viewerID != "" && !p.IsSelf {
		p.Following, err = s.follows.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("checking follow: %w", err)
		}
	}
	return p, nil
}

// Follow returns posts by every author the viewer follows.
func (s *FeedService) Follow(ctx context.Context, viewerID, page string) (Feed, error) {
	if err := requireViewer(viewerID, "read the follow feed"); err != nil {
		return Feed{}, err
	}
	return s.list(ctx, repository.PostFilter{FollowerID: viewerID}, page)
}

func (s *FeedService) list(ctx context.Context, filter repository.PostFilter, page string) (Feed, error) {
	count, err := s.posts.CountPosts(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count posts", slog.String("error", err.Error()))
		return Feed{}, fmt.Errorf("counting posts: %w", err)
	}

	p := paginate.New(count, s.perPage)
	n := p.Number(page)
	limit, offset := p.Bounds(n)

	posts, err := s.posts.ListPosts(ctx, filter, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return Feed{}, fmt.Errorf("listing posts: %w", err)
	}

	return paginate.NewPage(p, n, posts), nil
}
