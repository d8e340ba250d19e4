// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
//
// The `json:"..."` struct tags in this package are not cosmetic: they define
// the persisted layout of the three storage snapshots (users, posts, current
// session). A snapshot written by one version of the app must unmarshal
// cleanly in the next, so renaming a tag is a storage migration, not a
// refactor.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash WITH omitempty?
// Seed (demonstration) accounts ship without a stored credential. An empty
// string means "no credential on file" and triggers the fixed seed-account
// password rule in the auth service. omitempty keeps those records free of a
// misleading empty hash field, matching the layout the store is first
// seeded with.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user with the credential removed.
// Use this whenever a user record leaves the core (CLI output, logs) so the
// hash never shows up where it isn't needed.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
