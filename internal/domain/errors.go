package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced by the service layer. The HTTP boundary maps
// each sentinel to a stable code + message; nothing below it (storage
// error text, stack detail) ever reaches a caller.
var (
	// ErrNotFound covers both a genuinely absent resource and a resource
	// owned by another organization. Callers must not be able to tell
	// the two apart.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is a role or ownership violation inside the caller's
	// own organization.
	ErrForbidden = errors.New("not authorized")

	// ErrInvalidTransition means the target status is not a legal
	// successor of the current status for any role.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrSessionInvalid means the account is inactive or the presented
	// session epoch is stale; the client must log in again.
	ErrSessionInvalid = errors.New("session invalid")

	// ErrStorage wraps artifact persistence or removal failures.
	ErrStorage = errors.New("storage failure")

	// ErrQuotaExceeded means the organization's subscription tier does
	// not allow another account of the requested role.
	ErrQuotaExceeded = errors.New("account quota exceeded for subscription tier")

	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on bad login attempts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries a field-level message safe to show verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a field-scoped validation error.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
