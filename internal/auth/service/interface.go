// Package service provides the capability boundary between the access gate and
// the platform that proves device ownership.
//
// Platform adapters answer whether the owner can be asked and ask them. The
// Authenticator wraps a platform, turns cancellation into a failed attempt and
// remembers the last human-readable failure reason.
package service

import (
	"context"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

// Platform is the external device-owner authenticator (biometric or passcode).
type Platform interface {
	// CanAuthenticate reports whether a prompt can currently be shown.
	CanAuthenticate(ctx context.Context) (bool, error)

	// Authenticate prompts the owner with reason and blocks until they answer.
	Authenticate(ctx context.Context, reason string) (bool, error)

	// Kind describes the proof the platform asks for.
	Kind() authDomain.BiometryKind
}

// Authenticator is the mockable capability the access gate depends on.
type Authenticator interface {
	// Authenticate prompts the owner. Cancellation and failures return false.
	Authenticate(ctx context.Context, reason string) bool

	// IsAvailable reports whether the platform can prompt right now.
	IsAvailable(ctx context.Context) bool

	// Kind describes the proof the platform asks for.
	Kind() authDomain.BiometryKind

	// LastError returns the reason the most recent attempt failed, or "".
	LastError() string
}

// CredentialSource supplies the passcode for a passcode prompt.
type CredentialSource interface {
	// Passcode returns the owner's passcode. The caller zeroes the slice.
	// Returns ErrNoCredential when none is available.
	Passcode(ctx context.Context, reason string) ([]byte, error)
}

// PasscodeService hashes and verifies device-owner passcodes.
type PasscodeService interface {
	// HashPasscode returns an Argon2id PHC string for passcode.
	HashPasscode(passcode []byte) (string, error)

	// VerifyPasscode compares passcode with hash in constant time.
	VerifyPasscode(passcode []byte, hash string) bool
}
