package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/devshare/internal/apperror"
	"github.com/sakif/devshare/internal/auth"
	"github.com/sakif/devshare/internal/model"
	"github.com/sakif/devshare/internal/session"
)

// newUser builds a user record for tests. Leave id empty to let the store
// assign one.
func newUser(id, username, email string) *model.User {
	return &model.User{
		ID:       id,
		Username: username,
		Email:    email,
	}
}

func TestCreateUserAssignsIdentity(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	u := newUser("", "casey", "casey@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	require.NotEmpty(t, u.ID, "CreateUser must assign an ID")
	require.False(t, u.CreatedAt.IsZero(), "CreateUser must assign CreatedAt")
}

func TestCreateUserKeepsCallerIdentity(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &model.User{ID: "explicit-id", Username: "x", Email: "x@example.com", CreatedAt: at}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserByID(ctx, "explicit-id")
	require.NoError(t, err)
	require.True(t, got.CreatedAt.Equal(at))
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	u := &model.User{
		Username:     "casey",
		Email:        "casey@example.com",
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		AvatarURL:    "https://example.com/a.png",
		Bio:          "likes round trips",
	}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, u.AvatarURL, got.AvatarURL)
	require.Equal(t, u.Bio, got.Bio)
	require.True(t, u.CreatedAt.Equal(got.CreatedAt))
}

func TestGetUserByIDNotFound(t *testing.T) {
	s, _ := newEmptyStore(t)

	_, err := s.GetUserByID(context.Background(), "nope")
	require.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestCreateUserDoesNotEnforceEmailUniqueness(t *testing.T) {
	// Uniqueness belongs to the auth service; the store appends blindly.
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("", "a", "dup@example.com")))
	require.NoError(t, s.CreateUser(ctx, newUser("", "b", "dup@example.com")))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestUpdateUserReplacesRecord(t *testing.T) {
	s, _ := newEmptyStore(t)
	ctx := context.Background()

	u := newUser("", "casey", "casey@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	u.Username = "casey_codes"
	u.Bio = "updated"
	require.NoError(t, s.UpdateUser(ctx, u))

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "casey_codes", got.Username)
	require.Equal(t, "updated", got.Bio)
}

func TestUpdateUserNotFound(t *testing.T) {
	s, _ := newEmptyStore(t)

	err := s.UpdateUser(context.Background(), newUser("ghost", "g", "g@example.com"))
	require.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUpdateUserRefreshesCurrentSession(t *testing.T) {
	// The cross-collection consistency step: editing the signed-in user's
	// profile must re-write the denormalized session pointer too.
	kv := newTestKV(t)
	ctx := context.Background()

	codec, err := auth.NewSessionCodec("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	sessions := session.New(kv, codec, testLogger())

	s, err := New(ctx, kv, sessions, testLogger())
	require.NoError(t, err)

	u := newUser("", "casey", "casey@example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, sessions.Set(ctx, u))

	u.Bio = "fresh bio"
	require.NoError(t, s.UpdateUser(ctx, u))

	current, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "fresh bio", current.Bio, "session copy must not go stale")
}

func TestUpdateUserLeavesOtherSessionsAlone(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	codec, err := auth.NewSessionCodec("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	sessions := session.New(kv, codec, testLogger())

	s, err := New(ctx, kv, sessions, testLogger())
	require.NoError(t, err)

	me := newUser("", "me", "me@example.com")
	other := newUser("", "other", "other@example.com")
	require.NoError(t, s.CreateUser(ctx, me))
	require.NoError(t, s.CreateUser(ctx, other))
	require.NoError(t, sessions.Set(ctx, me))

	other.Bio = "changed"
	require.NoError(t, s.UpdateUser(ctx, other))

	current, err := sessions.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, me.ID, current.ID)
	require.Empty(t, current.Bio)
}
