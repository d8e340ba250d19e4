// Package session maintains the "current session" pointer: at most one
// persisted reference to the signed-in user.
//
// The Manager is the only writer to the session key. The document store is
// the source of truth for identity; this pointer is a denormalized
// convenience copy that lets the app restore its signed-in state at startup
// without re-authenticating. The value is signed (auth.SessionCodec), so a
// tampered pointer fails to restore rather than impersonating anyone.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/devshare/internal/auth"
	"github.com/sakif/devshare/internal/model"
	"github.com/sakif/devshare/internal/storage"
)

// Manager owns storage.CurrentUserKey.
type Manager struct {
	kv     storage.KV
	codec  *auth.SessionCodec
	logger *slog.Logger
}

// New creates a session Manager.
func New(kv storage.KV, codec *auth.SessionCodec, logger *slog.Logger) *Manager {
	return &Manager{
		kv:     kv,
		codec:  codec,
		logger: logger,
	}
}

// Current returns the signed-in user, or (nil, nil) when no session is
// persisted. An unreadable or tampered session value is an error, not a
// silent "signed out" — the caller decides whether to surface it or clear
// the session.
func (m *Manager) Current(ctx context.Context) (*model.User, error) {
	raw, ok, err := m.kv.Get(ctx, storage.CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("session: reading session pointer: %w", err)
	}
	if !ok {
		return nil, nil
	}

	user, err := m.codec.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("session: decoding session pointer: %w", err)
	}
	return user, nil
}

// Set persists the given user as the current session.
func (m *Manager) Set(ctx context.Context, user *model.User) error {
	token, err := m.codec.Encode(user)
	if err != nil {
		return fmt.Errorf("session: encoding session pointer: %w", err)
	}
	if err := m.kv.Set(ctx, storage.CurrentUserKey, []byte(token)); err != nil {
		return fmt.Errorf("session: writing session pointer: %w", err)
	}
	return nil
}

// Clear removes the session pointer. Always succeeds when storage does;
// clearing an absent session is a no-op.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.kv.Delete(ctx, storage.CurrentUserKey); err != nil {
		return fmt.Errorf("session: clearing session pointer: %w", err)
	}
	return nil
}

// RefreshIfCurrent re-writes the session pointer with the given user record
// when that user is the one currently signed in. The document store calls
// this from UpdateUser so a profile edit can't leave the denormalized
// session copy stale.
func (m *Manager) RefreshIfCurrent(ctx context.Context, user *model.User) error {
	current, err := m.Current(ctx)
	if err != nil {
		return err
	}
	if current == nil || current.ID != user.ID {
		return nil
	}

	m.logger.Debug("refreshing session pointer after profile update",
		slog.String("userID", user.ID),
	)
	return m.Set(ctx, user)
}
