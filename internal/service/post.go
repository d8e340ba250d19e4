package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/devshare/internal/apperror"
	"github.com/sakif/devshare/internal/model"
)

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
	MaxCodeLength        = 100000 // ~100KB of code
	MaxCommentLength     = 2000
	MaxTags              = 8
)

// PostStore is the slice of the document store PostService needs.
type PostStore interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListUserPosts(ctx context.Context, userID string) ([]model.Post, error)
	CreatePost(ctx context.Context, post *model.Post) error
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, postID string) error
	ToggleLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID string, comment *model.Comment) error
}

// PostInput is the caller-supplied payload for creating or editing a post.
//
// The validate tags encode the type contract the store leaves to callers:
// a snippet requires code and a language tag and excludes a project URL;
// a project requires a valid URL and excludes code.
type PostInput struct {
	Type        model.PostType `validate:"required,oneof=snippet project"`
	Title       string         `validate:"required,max=120"`
	Description string         `validate:"max=2000"`
	Code        string         `validate:"required_if=Type snippet,excluded_unless=Type snippet,max=100000"`
	Language    string         `validate:"required_if=Type snippet,excluded_unless=Type snippet,max=40"`
	ProjectURL  string         `validate:"required_if=Type project,excluded_unless=Type project,omitempty,url"`
	Tags        []string       `validate:"max=8,dive,required,max=30"`
}

// PostService enforces the post payload contract and ownership rules, then
// delegates persistence to the document store. It is the Go home for what
// the original UI forms enforced client-side.
type PostService struct {
	posts    PostStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts PostStore, logger *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Create validates the payload and publishes a new post authored by author,
// capturing the denormalized author snapshot (username + avatar) as of now.
func (s *PostService) Create(ctx context.Context, author *model.User, in PostInput) (*model.Post, error) {
	if author == nil || author.ID == "" {
		return nil, apperror.Forbidden("you must be signed in to publish a post")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = normalizeTags(in.Tags)

	if err := s.checkInput(in); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID: author.ID,
		Author: model.Author{
			Username:  author.Username,
			AvatarURL: author.AvatarURL,
		},
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Language:    in.Language,
		ProjectURL:  in.ProjectURL,
		Tags:        in.Tags,
		CreatedAt:   time.Now(),
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post published",
		slog.String("postID", post.ID),
		slog.String("type", string(post.Type)),
	)
	return post, nil
}

// Update validates the payload and replaces the post's content. Only the
// owner may edit; likes and comments are carried over untouched, and the
// author snapshot is refreshed to the editor's current username/avatar.
func (s *PostService) Update(ctx context.Context, editor *model.User, postID string, in PostInput) (*model.Post, error) {
	if editor == nil || editor.ID == "" {
		return nil, apperror.Forbidden("you must be signed in to edit a post")
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != editor.ID {
		return nil, apperror.Forbidden("only the author can edit this post")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = normalizeTags(in.Tags)

	if err := s.checkInput(in); err != nil {
		return nil, err
	}

	post.Type = in.Type
	post.Title = in.Title
	post.Description = in.Description
	post.Code = in.Code
	post.Language = in.Language
	post.ProjectURL = in.ProjectURL
	post.Tags = in.Tags
	post.Author = model.Author{
		Username:  editor.Username,
		AvatarURL: editor.AvatarURL,
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: updating post %s: %w", postID, err)
	}

	s.logger.Info("post updated", slog.String("postID", post.ID))
	return post, nil
}

// Delete removes a post. Only the owner may delete; deleting a post that no
// longer exists is a no-op (the store's idempotence carried up a layer).
func (s *PostService) Delete(ctx context.Context, editor *model.User, postID string) error {
	if editor == nil || editor.ID == "" {
		return apperror.Forbidden("you must be signed in to delete a post")
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return err
	}
	if post.UserID != editor.ID {
		return apperror.Forbidden("only the author can delete this post")
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("service/post: deleting post %s: %w", postID, err)
	}

	s.logger.Info("post deleted", slog.String("postID", postID))
	return nil
}

// ToggleLike flips the given user's like on a post. Any signed-in user may
// like any post.
func (s *PostService) ToggleLike(ctx context.Context, user *model.User, postID string) error {
	if user == nil || user.ID == "" {
		return apperror.Forbidden("you must be signed in to like a post")
	}

	if err := s.posts.ToggleLike(ctx, postID, user.ID); err != nil {
		return fmt.Errorf("service/post: toggling like on %s: %w", postID, err)
	}
	return nil
}

// AddComment appends a comment by the given user, capturing their username
// snapshot. Content is required and capped.
func (s *PostService) AddComment(ctx context.Context, user *model.User, postID, content string) (*model.Comment, error) {
	if user == nil || user.ID == "" {
		return nil, apperror.Forbidden("you must be signed in to comment")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}
	if len(content) > MaxCommentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	comment := &model.Comment{
		PostID:    postID,
		UserID:    user.ID,
		Username:  user.Username,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, fmt.Errorf("service/post: commenting on %s: %w", postID, err)
	}
	return comment, nil
}

// Feed returns all posts, newest first.
func (s *PostService) Feed(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing feed: %w", err)
	}
	return posts, nil
}

// UserFeed returns one user's posts, newest first.
func (s *PostService) UserFeed(ctx context.Context, userID string) ([]model.Post, error) {
	posts, err := s.posts.ListUserPosts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts for %s: %w", userID, err)
	}
	return posts, nil
}

// findPost scans the feed for a post by ID. The store keeps whole-collection
// snapshots, so there is no cheaper lookup to delegate to.
func (s *PostService) findPost(ctx context.Context, postID string) (*model.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	for i := range posts {
		if posts[i].ID == postID {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, apperror.NotFound("post", postID)
}

// checkInput runs the validator and translates the first failure into the
// app's validation error shape.
func (s *PostService) checkInput(in PostInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.ValidationFailed(fe.Field(),
			fmt.Sprintf("invalid %s: fails %q constraint", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("service/post: validating input: %w", err)
}

// normalizeTags trims whitespace and drops empty tags. Duplicates are kept:
// the store never deduplicated tags, and feeds render them as given.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
