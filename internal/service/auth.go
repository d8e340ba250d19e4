// Package service contains the business logic layered on the document store.
//
// AuthService orchestrates registration and login; PostService enforces the
// post payload contract the store itself deliberately leaves to callers.
// Both depend on small interfaces (not the concrete store), so tests inject
// in-memory fakes and the CLI injects the real thing.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sakif/devshare/internal/apperror"
	"github.com/sakif/devshare/internal/auth"
	"github.com/sakif/devshare/internal/model"
)

// SeedAccountPassword is the single documented rule for demonstration
// accounts that ship without a stored credential: they sign in with exactly
// this password. (The earlier behavior — empty password also accepted,
// except for one hardcoded email — was scaffolding, and is gone.)
const SeedAccountPassword = "password"

// UserStore is the slice of the document store AuthService needs.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
}

// SessionStore persists the current-session pointer.
type SessionStore interface {
	Current(ctx context.Context) (*model.User, error)
	Set(ctx context.Context, user *model.User) error
	Clear(ctx context.Context) error
}

// AuthService implements register, login, logout, and session restore on top
// of the document store and session manager.
//
// CONCURRENCY: each auth action is a compound operation (read the users
// collection, decide, then maybe write). The store's own mutex only covers
// single operations, so AuthService serializes its compound sequences behind
// its own lock — without it, two concurrent registrations with the same
// email could both pass the uniqueness check.
type AuthService struct {
	mu        sync.Mutex
	users     UserStore
	sessions  SessionStore
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users UserStore,
	sessions SessionStore,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account and signs it in.
//
// Fails with apperror.ErrEmailInUse if the email is already registered
// (case-sensitive exact match, the store's historical behavior) — and in
// that case nothing is written. On success the new user, with a fresh
// collision-safe ID and a derived default avatar, is persisted and becomes
// the current session.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}
	for i := range users {
		if users[i].Email == email {
			return nil, apperror.EmailInUse(email)
		}
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    defaultAvatarURL(username),
		CreatedAt:    time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: persisting session for %s: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login authenticates by email and password and signs the user in.
//
// Failure modes are kept distinct so the caller can phrase them differently:
// apperror.ErrAccountNotFound when no user matches the email,
// apperror.ErrInvalidCredentials when the password is wrong. Accounts with a
// stored hash verify by re-deriving and comparing; credential-less seed
// accounts require SeedAccountPassword. Failed logins never mutate anything.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}

	var user *model.User
	for i := range users {
		if users[i].Email == email {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return nil, apperror.AccountNotFound(email)
	}

	if user.PasswordHash != "" {
		if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return nil, apperror.InvalidCredentials()
			}
			return nil, fmt.Errorf("service/auth: verifying password: %w", err)
		}
	} else if password != SeedAccountPassword {
		return nil, apperror.InvalidCredentials()
	}

	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: persisting session for %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return user, nil
}

// Logout clears the session pointer. Logging out while already logged out is
// fine.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service/auth: clearing session: %w", err)
	}
	s.logger.Info("user logged out")
	return nil
}

// RestoreSession rehydrates the signed-in user at process start. Returns
// (nil, nil) when nobody is signed in. Sessions have no expiry; they persist
// until explicit logout.
func (s *AuthService) RestoreSession(ctx context.Context) (*model.User, error) {
	user, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: restoring session: %w", err)
	}
	return user, nil
}

// defaultAvatarURL derives a generated-avatar URL for accounts registered
// without a picture.
func defaultAvatarURL(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=random"
}
