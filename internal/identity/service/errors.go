package service

import (
	"context"
	"errors"
	"time"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/store"
)

// DefaultStoreTimeout bounds every store round trip made by a service call.
const DefaultStoreTimeout = 5 * time.Second

// Shared error values. Credential failures always return the same pointer so
// the response payload is identical whichever check failed.
var (
	ErrInvalidCredentials      = apperror.NewUnauthenticated("Invalid credentials")
	ErrInvalidAdminCredentials = apperror.NewUnauthenticated("Invalid admin credentials")
	ErrInvalidSession          = apperror.NewUnauthenticated("Invalid or expired token")
	ErrTwoFactorRequired       = apperror.NewUnauthenticated("Two-factor authentication code required").WithDetail("twoFactorRequired", true)
	ErrInvalidGoogleToken      = apperror.NewUnauthenticated("Invalid Google token")

	ErrInvalidResetToken       = apperror.NewValidation("Invalid or expired reset token")
	ErrInvalidTOTPCode         = apperror.NewValidation("Invalid verification code")
	ErrIncorrectPassword       = apperror.NewValidation("Current password is incorrect", violation("currentPassword", "Current password is incorrect"))
	ErrNoPendingEnrollment     = apperror.NewValidation("No pending two-factor setup. Generate a new secret first")
	ErrTwoFactorNotEnabled     = apperror.NewValidation("Two-factor authentication is not enabled")
	ErrTwoFactorAlreadyEnabled = apperror.NewConflict("Two-factor authentication is already enabled")
	ErrNoPasswordSet           = apperror.NewValidation("This account signs in with Google and has no password")
	ErrTooManyContacts         = apperror.NewValidation("Maximum of 5 contacts reached", violation("contacts", "Maximum of 5 contacts reached"))
	ErrEmptyUpdate             = apperror.NewValidation("No fields to update")

	ErrAccountNotFound = apperror.NewNotFound("Account not found")
	ErrContactNotFound = apperror.NewNotFound("Contact not found")

	ErrEmailTaken             = apperror.NewConflict("Email is already registered")
	ErrUsernameTaken          = apperror.NewConflict("Username is already taken")
	ErrGoogleAccountLinked    = apperror.NewConflict("Google account is already linked to another user")
	ErrConcurrentModification = apperror.NewConflict("account was modified concurrently")
	ErrOwnRoleChange          = apperror.NewForbidden("Administrators cannot change their own role")
)

// classify turns a store or library error into a client-facing one.
// Not-found is left to the caller since its meaning depends on what was
// looked up.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch store.ConflictField(err) {
	case "email":
		return ErrEmailTaken
	case "username":
		return ErrUsernameTaken
	case "google_id":
		return ErrGoogleAccountLinked
	}
	if errors.Is(err, store.ErrUnavailable) {
		return apperror.NewUnavailable(err)
	}
	return apperror.From(err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

func violation(field, message string) apperror.Violation {
	return apperror.Violation{Field: field, Message: message}
}
