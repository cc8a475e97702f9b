package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether the identifier or the password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict signals a duplicate email or username. The message shown to
	// clients never reveals which field collided.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned for a missing or unknown API key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLicenseInactive is returned when a license key exists but is disabled.
	// Identity is known at that point, so it maps to 403 rather than 404.
	ErrLicenseInactive = errors.New("license key inactive")
	// ErrTokenInvalid covers expired, consumed, and unknown reset tokens alike.
	ErrTokenInvalid = errors.New("invalid or expired token")
	ErrInvalidInput = errors.New("invalid input")
)

// FieldErrors carries field-scoped validation messages back to the boundary layer.
// It is an error value rather than a thrown control-flow construct so every flow
// returns its outcome explicitly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// AsFieldErrors unwraps a FieldErrors value from an error chain.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
