package domain

import (
	"github.com/prateekro/trayme-guard/internal/errors"
)

// Authentication and session errors.
var (
	// ErrAuthenticationDeclined indicates the device owner did not prove their identity.
	ErrAuthenticationDeclined = errors.Wrap(errors.ErrUnauthorized, "authentication declined")

	// ErrTooManyAttempts indicates authentication attempts are being throttled.
	ErrTooManyAttempts = errors.Wrap(errors.ErrLocked, "too many authentication attempts")

	// ErrUnknownSystemEvent indicates a lifecycle event name is not recognized.
	ErrUnknownSystemEvent = errors.Wrap(errors.ErrInvalidInput, "unknown system event")

	// ErrInvalidAutoLockMinutes indicates a negative auto-lock threshold.
	ErrInvalidAutoLockMinutes = errors.Wrap(errors.ErrInvalidInput, "auto-lock minutes must not be negative")

	// ErrNoCredential indicates no passcode was supplied for an authentication prompt.
	ErrNoCredential = errors.Wrap(errors.ErrUnauthorized, "no passcode provided")
)
