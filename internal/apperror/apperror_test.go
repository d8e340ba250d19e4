package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFoundUnwrapsToSentinel(t *testing.T) {
	err := NotFound("post", "p123")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should unwrap to ErrNotFound")
	}
	if !strings.Contains(err.Error(), "p123") {
		t.Errorf("message %q should contain the id", err.Error())
	}
}

func TestValidationFailedCarriesField(t *testing.T) {
	err := ValidationFailed("email", "email is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should unwrap to ErrValidation")
	}
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	if err.Error() != "email is required" {
		t.Errorf("Error() = %q, want the message verbatim", err.Error())
	}
}

func TestAuthErrorsAreDistinct(t *testing.T) {
	// AccountNotFound and InvalidCredentials must stay distinguishable so
	// callers can phrase the two login failures differently.
	notFound := AccountNotFound("ghost@example.com")
	badPass := InvalidCredentials()

	if errors.Is(notFound, ErrInvalidCredentials) {
		t.Error("AccountNotFound should not match ErrInvalidCredentials")
	}
	if errors.Is(badPass, ErrAccountNotFound) {
		t.Error("InvalidCredentials should not match ErrAccountNotFound")
	}
	if !errors.Is(notFound, ErrAccountNotFound) {
		t.Error("AccountNotFound should match ErrAccountNotFound")
	}
	if !errors.Is(badPass, ErrInvalidCredentials) {
		t.Error("InvalidCredentials should match ErrInvalidCredentials")
	}
}

func TestEmailInUse(t *testing.T) {
	err := EmailInUse("taken@example.com")

	if !errors.Is(err, ErrEmailInUse) {
		t.Error("EmailInUse() should unwrap to ErrEmailInUse")
	}
	if !strings.Contains(err.Error(), "taken@example.com") {
		t.Errorf("message %q should contain the email", err.Error())
	}
}

func TestCorruptStateKeepsCauseInMessage(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := CorruptState("devshare_users", cause)

	if !errors.Is(err, ErrCorruptState) {
		t.Error("CorruptState() should unwrap to ErrCorruptState")
	}
	if !strings.Contains(err.Error(), "devshare_users") {
		t.Errorf("message %q should name the key", err.Error())
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Errorf("message %q should include the cause", err.Error())
	}
}

func TestWrappedAppErrorSurvivesFmtErrorf(t *testing.T) {
	err := fmt.Errorf("store: reading users: %w", CorruptState("devshare_users", errors.New("bad json")))

	if !errors.Is(err, ErrCorruptState) {
		t.Error("sentinel should survive another layer of wrapping")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Error("errors.As should recover the *AppError from the chain")
	}
}
