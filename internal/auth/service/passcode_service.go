package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// passcodeService implements PasscodeService using Argon2id.
type passcodeService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasscodeService creates a PasscodeService with the moderate Argon2id policy.
func NewPasscodeService() PasscodeService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passcodeService{
		hasher: hasher,
	}
}

// HashPasscode hashes passcode. Empty passcodes are rejected.
func (s *passcodeService) HashPasscode(passcode []byte) (string, error) {
	if len(passcode) == 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "passcode must not be empty")
	}
	hash, err := s.hasher.Hash(passcode)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash passcode")
	}
	return hash, nil
}

// VerifyPasscode reports whether passcode matches hash. Malformed hashes never match.
func (s *passcodeService) VerifyPasscode(passcode []byte, hash string) bool {
	if len(passcode) == 0 || hash == "" {
		return false
	}
	ok, err := s.hasher.Verify(passcode, hash)
	if err != nil {
		return false
	}
	return ok
}
