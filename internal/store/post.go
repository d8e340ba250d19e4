package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/xid"

	"github.com/sakif/devshare/internal/apperror"
	"github.com/sakif/devshare/internal/model"
)

// ListPosts returns every post sorted descending by creation timestamp.
//
// The sort is a contract, not an incidental detail: every consumer (feed,
// profile) relies on reverse-chronological order without re-sorting.
func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts, err := s.readPosts(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// ListUserPosts returns the given user's posts, newest first — ListPosts
// filtered by owning user ID, same order.
func (s *Store) ListUserPosts(ctx context.Context, userID string) ([]model.Post, error) {
	posts, err := s.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	own := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.UserID == userID {
			own = append(own, p)
		}
	}
	return own, nil
}

// CreatePost prepends the post to the collection and rewrites the snapshot.
// Prepend (not append) keeps the stored order freshest-first, matching what
// the timestamp sort re-derives on every read. ID and CreatedAt are assigned
// when unset; nil Tags/Likes/Comments are normalized to empty slices so the
// snapshot always serializes them as arrays.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = xid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	posts, err := s.readPosts(ctx)
	if err != nil {
		return err
	}
	posts = append([]model.Post{*post}, posts...)

	if err := s.writePosts(ctx, posts); err != nil {
		return fmt.Errorf("store: creating post %s: %w", post.ID, err)
	}
	return nil
}

// UpdatePost replaces the post record with the same ID and rewrites the
// snapshot. Full replace — the caller supplies the complete record, including
// likes and comments.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.readPosts(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range posts {
		if posts[i].ID == post.ID {
			posts[i] = *post
			found = true
			break
		}
	}
	if !found {
		return apperror.NotFound("post", post.ID)
	}

	if err := s.writePosts(ctx, posts); err != nil {
		return fmt.Errorf("store: updating post %s: %w", post.ID, err)
	}
	return nil
}

// DeletePost filters the post out of the collection and rewrites the
// snapshot. Idempotent: deleting an absent ID is a no-op, not an error.
// Embedded comments go with the post; they have no independent lifecycle.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.readPosts(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}

	if err := s.writePosts(ctx, kept); err != nil {
		return fmt.Errorf("store: deleting post %s: %w", postID, err)
	}
	return nil
}

// ToggleLike flips membership of userID in the post's like list: present →
// remove every occurrence, absent → append once. A no-op if the post does
// not exist. Toggling twice restores the original membership state.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.readPosts(ctx)
	if err != nil {
		return err
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}

		if posts[i].LikedBy(userID) {
			kept := make([]string, 0, len(posts[i].Likes))
			for _, id := range posts[i].Likes {
				if id != userID {
					kept = append(kept, id)
				}
			}
			posts[i].Likes = kept
		} else {
			posts[i].Likes = append(posts[i].Likes, userID)
		}

		if err := s.writePosts(ctx, posts); err != nil {
			return fmt.Errorf("store: toggling like on post %s: %w", postID, err)
		}
		return nil
	}

	// Post not found: silent no-op per the store's contract.
	return nil
}

// AddComment appends the comment to the post's comment list, preserving
// insertion order (comments are never re-sorted). A no-op if the post does
// not exist. ID, PostID, and CreatedAt are assigned when unset.
func (s *Store) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID == "" {
		comment.ID = xid.New().String()
	}
	if comment.PostID == "" {
		comment.PostID = postID
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now()
	}

	posts, err := s.readPosts(ctx)
	if err != nil {
		return err
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}

		posts[i].Comments = append(posts[i].Comments, *comment)

		if err := s.writePosts(ctx, posts); err != nil {
			return fmt.Errorf("store: adding comment to post %s: %w", postID, err)
		}
		return nil
	}

	return nil
}
