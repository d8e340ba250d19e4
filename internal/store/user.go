package store

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/devshare/internal/apperror"
	"github.com/sakif/devshare/internal/model"
)

// ListUsers returns every user in the collection, in stored (insertion)
// order.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readUsers(ctx)
}

// GetUserByID returns the user with the given ID, or apperror.ErrNotFound.
// A linear scan is deliberate: the collection is one snapshot anyway, so
// there is no index to use.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

// CreateUser appends the user to the collection and rewrites the snapshot.
// ID and CreatedAt are assigned when unset (xid IDs are collision-safe under
// rapid successive calls, unlike timestamp-derived ones).
//
// CreateUser does NOT enforce email uniqueness — that check belongs to the
// caller (the auth service), which serializes check-then-create behind its
// own lock.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = xid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		return err
	}
	users = append(users, *user)

	if err := s.writeUsers(ctx, users); err != nil {
		return fmt.Errorf("store: creating user %s: %w", user.ID, err)
	}
	return nil
}

// UpdateUser replaces the user record with the same ID and rewrites the
// snapshot. No partial merge: the caller supplies the complete record.
//
// CROSS-COLLECTION STEP: if the updated user is the currently signed-in one,
// the persisted session pointer holds a stale denormalized copy, so it is
// re-written here as part of the same logical operation.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			found = true
			break
		}
	}
	if !found {
		return apperror.NotFound("user", user.ID)
	}

	if err := s.writeUsers(ctx, users); err != nil {
		return fmt.Errorf("store: updating user %s: %w", user.ID, err)
	}

	if s.sessions != nil {
		if err := s.sessions.RefreshIfCurrent(ctx, user); err != nil {
			return fmt.Errorf("store: refreshing session for user %s: %w", user.ID, err)
		}
	}
	return nil
}
