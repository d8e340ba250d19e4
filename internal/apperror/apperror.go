package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core's failure taxonomy. Callers branch on these
// with errors.Is; the AppError wrapper carries the human-readable detail.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailInUse         = errors.New("email already in use")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCorruptState marks a persisted snapshot that cannot be parsed.
	// It is fatal for the operation and must propagate: silently treating a
	// corrupt collection as empty would overwrite it (and lose data) on the
	// next write.
	ErrCorruptState = errors.New("corrupt persisted state")
)

type AppError struct {
	Err     error  // sentinel category, for errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission,
// e.g. editing somebody else's post.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func EmailInUse(email string) *AppError {
	return &AppError{
		Err:     ErrEmailInUse,
		Message: fmt.Sprintf("email %s is already in use", email),
		Field:   "email",
	}
}

func AccountNotFound(email string) *AppError {
	return &AppError{
		Err:     ErrAccountNotFound,
		Message: fmt.Sprintf("no account found for %s", email),
		Field:   "email",
	}
}

// InvalidCredentials is deliberately distinct from AccountNotFound so the
// caller can phrase the two login failures differently.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
		Field:   "password",
	}
}

// CorruptState wraps a snapshot parse failure for the given storage key.
// The cause's text is folded into the message; the category stays
// ErrCorruptState for errors.Is checks.
func CorruptState(key string, cause error) *AppError {
	return &AppError{
		Err:     ErrCorruptState,
		Message: fmt.Sprintf("snapshot under key %q is corrupt: %v", key, cause),
	}
}
