// Package store implements the persisted document store: durable CRUD over
// the two collections (users, posts-with-embedded-comments) that make up the
// application's state.
//
// STORAGE DISCIPLINE — WHOLE-SNAPSHOT READ-MODIFY-WRITE:
// Each collection is persisted as one serialized JSON snapshot under a single
// key. Every mutation reads the entire collection, changes it in memory, and
// writes the entire collection back. There are no partial or per-record
// writes. Consistency within one operation comes from an internal mutex held
// across the full read-modify-write cycle; last write wins at collection
// granularity, with no versioning or conflict detection.
//
// The Store is the only writer to the users and posts keys. It also performs
// one cross-collection step: UpdateUser re-writes the session pointer (via
// the injected SessionRefresher) when the edited user is the one currently
// signed in, keeping the denormalized session copy from going stale.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/devshare/internal/apperror"
	"github.com/sakif/devshare/internal/model"
	"github.com/sakif/devshare/internal/storage"
)

// SessionRefresher re-writes the persisted session pointer when the given
// user is the current one. Implemented by session.Manager; nil disables the
// cross-collection step (useful in tests that have no session).
type SessionRefresher interface {
	RefreshIfCurrent(ctx context.Context, user *model.User) error
}

// Store manages the users and posts collections on a storage.KV substrate.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	sessions SessionRefresher
	logger   *slog.Logger
}

// New creates a Store and seeds any absent collection with the fixed
// demonstration records. Seeding is idempotent: a key that already holds
// data — even an empty collection — is never overwritten, so real data can't
// be clobbered by a restart.
func New(ctx context.Context, kv storage.KV, sessions SessionRefresher, logger *slog.Logger) (*Store, error) {
	s := &Store{
		kv:       kv,
		sessions: sessions,
		logger:   logger,
	}

	if err := s.seed(ctx); err != nil {
		return nil, fmt.Errorf("store: seeding: %w", err)
	}

	return s, nil
}

// seed writes the demonstration records under each collection key that has
// never been written.
func (s *Store) seed(ctx context.Context) error {
	if _, ok, err := s.kv.Get(ctx, storage.UsersKey); err != nil {
		return err
	} else if !ok {
		if err := s.writeUsers(ctx, seedUsers()); err != nil {
			return err
		}
		s.logger.Info("seeded demonstration users", slog.String("key", storage.UsersKey))
	}

	if _, ok, err := s.kv.Get(ctx, storage.PostsKey); err != nil {
		return err
	} else if !ok {
		if err := s.writePosts(ctx, seedPosts()); err != nil {
			return err
		}
		s.logger.Info("seeded demonstration posts", slog.String("key", storage.PostsKey))
	}

	return nil
}

// --- snapshot helpers ---------------------------------------------------
//
// These do NOT lock; callers hold s.mu for the whole read-modify-write cycle.

// readUsers deserializes the users snapshot. An absent key is an empty
// collection; an unparseable one is a fatal CorruptState error, never
// silently defaulted (defaulting would lose the data on the next write).
func (s *Store) readUsers(ctx context.Context) ([]model.User, error) {
	raw, ok, err := s.kv.Get(ctx, storage.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("store: reading users snapshot: %w", err)
	}
	if !ok {
		return []model.User{}, nil
	}

	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, apperror.CorruptState(storage.UsersKey, err)
	}
	return users, nil
}

func (s *Store) writeUsers(ctx context.Context, users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("store: serializing users snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, storage.UsersKey, raw); err != nil {
		return fmt.Errorf("store: writing users snapshot: %w", err)
	}
	return nil
}

// readPosts deserializes the posts snapshot in stored order (no sorting —
// ListPosts applies the reverse-chronological contract on the way out).
func (s *Store) readPosts(ctx context.Context) ([]model.Post, error) {
	raw, ok, err := s.kv.Get(ctx, storage.PostsKey)
	if err != nil {
		return nil, fmt.Errorf("store: reading posts snapshot: %w", err)
	}
	if !ok {
		return []model.Post{}, nil
	}

	var posts []model.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, apperror.CorruptState(storage.PostsKey, err)
	}
	return posts, nil
}

func (s *Store) writePosts(ctx context.Context, posts []model.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("store: serializing posts snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, storage.PostsKey, raw); err != nil {
		return fmt.Errorf("store: writing posts snapshot: %w", err)
	}
	return nil
}

// now is a seam for tests that need deterministic timestamps.
var now = time.Now
