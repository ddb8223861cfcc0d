package domain

import (
	"github.com/prateekro/trayme-guard/internal/errors"
)

// Cryptographic operation error definitions.
//
// ErrDecryptionFailed deliberately covers every open failure (wrong key,
// tampered or truncated blob, blob from another key generation) so callers
// cannot use it as an oracle.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyRecord indicates a persisted key record has the wrong shape.
	ErrInvalidKeyRecord = errors.Wrap(errors.ErrInvalidInput, "invalid key record")

	// ErrInvalidUTF8 indicates decrypted bytes are not valid UTF-8 text.
	ErrInvalidUTF8 = errors.Wrap(errors.ErrInvalidInput, "payload is not valid UTF-8")

	// ErrDecryptionFailed indicates a blob could not be opened.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrEncryptionFailed indicates sealing failed even though a key was present.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrKeyUnavailable indicates the vault could not produce or persist a key.
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "master key unavailable")

	// ErrKeyNotFound indicates the key store holds no entry for the requested slot.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")
)
