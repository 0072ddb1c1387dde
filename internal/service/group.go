package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
)

// GroupService creates and lists groups. Creating groups is an admin task.
type GroupService struct {
	groups repository.GroupRepository
	logger *slog.Logger
}

func NewGroupService(groups repository.GroupRepository, logger *slog.Logger) *GroupService {
	return &GroupService{groups: groups, logger: logger}
}

// Create adds a group. A taken slug is reported as a validation error on
// the slug field.
func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)

	if title == "" {
		return nil, apperror.ValidationFailed("title", msgRequired)
	}
	if utf8.RuneCountInString(title) > MaxGroupTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("Ensure this value has at most %d characters.", MaxGroupTitleLength))
	}
	if slug == "" {
		return nil, apperror.ValidationFailed("slug", msgRequired)
	}
	if len(slug) > MaxGroupSlugLength {
		return nil, apperror.ValidationFailed("slug",
			fmt.Sprintf("Ensure this value has at most %d characters.", MaxGroupSlugLength))
	}

	group := &model.Group{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("slug", "Group with this slug already exists.")
		}
		return nil, fmt.Errorf("creating group: %w", err)
	}

	s.logger.Info("group created",
		slog.String("id", group.ID),
		slog.String("slug", group.Slug),
	)
	return group, nil
}

// List returns every group ordered by title.
func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}
