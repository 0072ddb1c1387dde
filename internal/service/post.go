package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
	"github.com/sakif/yatube/internal/storage"
)

// imageFolder is the storage folder for post illustrations.
const imageFolder = "posts"

// PostInput is what the create and edit forms submit.
type PostInput struct {
	Text    string
	GroupID string // empty for no group

	// Image replaces the current image when non-nil. ClearImage removes the
	// current image when no new one is given.
	Image      *storage.Upload
	ClearImage bool
}

// PostDetail is a post with everything its page shows.
type PostDetail struct {
	Post            *model.Post
	Comments        []model.Comment
	AuthorPostCount int
}

// PostService creates, edits and comments on posts.
type PostService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	images   storage.ImageStore
	logger   *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	images storage.ImageStore,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		groups:   groups,
		comments: comments,
		images:   images,
		logger:   logger,
	}
}

// Detail loads a post, its comments (oldest first) and the author's total
// post count.
func (s *PostService) Detail(ctx context.Context, postID string) (*PostDetail, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListCommentsByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	count, err := s.posts.CountPosts(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("counting author posts: %w", err)
	}

	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

// Create publishes a post owned by the viewer.
func (s *PostService) Create(ctx context.Context, viewerID string, in PostInput) (*model.Post, error) {
	if err := requireViewer(viewerID, "create a post"); err != nil {
		return nil, err
	}

	post := &model.Post{AuthorID: viewerID}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}

	key, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	if key != "" {
		post.Image = key
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.discardImage(ctx, key)
		s.logger.Error("failed to create post",
			slog.String("author", viewerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("author", viewerID),
		slog.String("group", post.GroupID),
	)
	return post, nil
}

// GetForEdit returns the post if the viewer may edit it.
func (s *PostService) GetForEdit(ctx context.Context, viewerID, postID string) (*model.Post, error) {
	if err := requireViewer(viewerID, "edit a post"); err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != viewerID {
		return nil, apperror.Forbidden("only the author can edit this post")
	}
	return post, nil
}

// Update rewrites text, group and image of the viewer's own post. The
// author and publication date never change.
func (s *PostService) Update(ctx context.Context, viewerID, postID string, in PostInput) (*model.Post, error) {
	post, err := s.GetForEdit(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}

	oldImage := post.Image
	newImage, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	switch {
	case newImage != "":
		post.Image = newImage
	case in.ClearImage:
		post.Image = ""
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		s.discardImage(ctx, newImage)
		s.logger.Error("failed to update post",
			slog.String("id", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	if oldImage != "" && oldImage != post.Image {
		s.discardImage(ctx, oldImage)
	}

	s.logger.Info("post updated", slog.String("id", post.ID))
	return post, nil
}

// Exists reports ErrNotFound when there is no post with postID.
func (s *PostService) Exists(ctx context.Context, postID string) error {
	_, err := s.posts.GetPostByID(ctx, postID)
	return err
}

// AddComment attaches the viewer's comment to a post.
func (s *PostService) AddComment(ctx context.Context, viewerID, postID, text string) (*model.Comment, error) {
	if err := requireViewer(viewerID, "comment"); err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", msgRequired)
	}

	comment := &model.Comment{PostID: post.ID, AuthorID: viewerID, Text: text}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment added",
		slog.String("id", comment.ID),
		slog.String("post", post.ID),
		slog.String("author", viewerID),
	)
	return comment, nil
}

// Delete removes a post, its comments and its image. Only the admin CLI
// calls it, so there is no viewer.
func (s *PostService) Delete(ctx context.Context, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	s.discardImage(ctx, post.Image)

	s.logger.Info("post deleted", slog.String("id", post.ID))
	return nil
}

// apply validates in and copies text and group onto post.
func (s *PostService) apply(ctx context.Context, post *model.Post, in PostInput) error {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return apperror.ValidationFailed("text", msgRequired)
	}

	groupID := strings.TrimSpace(in.GroupID)
	if groupID != "" {
		if _, err := s.groups.GetGroupByID(ctx, groupID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.ValidationFailed("group", msgInvalidGroup)
			}
			return fmt.Errorf("loading group: %w", err)
		}
	}

	post.Text = text
	post.GroupID = groupID
	return nil
}

func (s *PostService) saveImage(ctx context.Context, upload *storage.Upload) (string, error) {
	if upload == nil {
		return "", nil
	}
	if s.images == nil {
		return "", errors.New("image uploads are not configured")
	}
	key, err := s.images.Save(ctx, imageFolder, *upload)
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return key, nil
}

// discardImage deletes key from storage. Failures leave an orphaned file,
// which is logged and otherwise ignored.
func (s *PostService) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete image",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
