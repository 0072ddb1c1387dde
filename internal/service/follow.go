package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
)

// FollowService manages who follows whom.
type FollowService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	logger  *slog.Logger
}

func NewFollowService(users repository.UserRepository, follows repository.FollowRepository, logger *slog.Logger) *FollowService {
	return &FollowService{users: users, follows: follows, logger: logger}
}

// Follow subscribes the viewer to username. Following twice is the same as
// following once, and following yourself is silently ignored. The author is
// returned so the caller can redirect to their profile.
func (s *FollowService) Follow(ctx context.Context, viewerID, username string) (*model.User, error) {
	if err := requireViewer(viewerID, "follow an author"); err != nil {
		return nil, err
	}

	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == viewerID {
		return author, nil
	}

	created, err := s.follows.Follow(ctx, viewerID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("following %s: %w", username, err)
	}
	if created {
		s.logger.Info("user followed",
			slog.String("user", viewerID),
			slog.String("author", author.ID),
		)
	}
	return author, nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, viewerID, username string) (*model.User, error) {
	if err := requireViewer(viewerID, "unfollow an author"); err != nil {
		return nil, err
	}

	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	deleted, err := s.follows.Unfollow(ctx, viewerID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("unfollowing %s: %w", username, err)
	}
	if deleted {
		s.logger.Info("user unfollowed",
			slog.String("user", viewerID),
			slog.String("author", author.ID),
		)
	}
	return author, nil
}
