package service

import (
	"context"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
)

// PasscodePlatform authenticates the owner by checking a passcode from a
// CredentialSource against a stored Argon2id hash.
type PasscodePlatform struct {
	hash     string
	source   CredentialSource
	passcode PasscodeService
}

// NewPasscodePlatform creates a PasscodePlatform. An empty hash leaves the
// platform unavailable.
func NewPasscodePlatform(hash string, source CredentialSource, passcode PasscodeService) *PasscodePlatform {
	return &PasscodePlatform{
		hash:     hash,
		source:   source,
		passcode: passcode,
	}
}

// CanAuthenticate reports whether a passcode hash is configured.
func (p *PasscodePlatform) CanAuthenticate(_ context.Context) (bool, error) {
	return p.hash != "", nil
}

// Authenticate reads a passcode from the source and verifies it.
func (p *PasscodePlatform) Authenticate(ctx context.Context, reason string) (bool, error) {
	code, err := p.source.Passcode(ctx, reason)
	if err != nil {
		return false, err
	}
	defer cryptoDomain.Zero(code)

	return p.passcode.VerifyPasscode(code, p.hash), nil
}

// Kind returns BiometryNone; a passcode is not a biometric.
func (p *PasscodePlatform) Kind() authDomain.BiometryKind {
	return authDomain.BiometryNone
}
