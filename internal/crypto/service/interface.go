// Package service provides the cryptographic services of the subsystem: AEAD
// ciphers, the CryptoBox that seals payloads under the master key, and the
// KeyVault that owns that key.
package service

import (
	"context"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyStore is the external secure store holding the persisted key record.
type KeyStore interface {
	// Get returns the value stored for (service, account) or ErrKeyNotFound.
	Get(ctx context.Context, service, account string) ([]byte, error)

	// Put creates or replaces the value stored for (service, account).
	Put(ctx context.Context, service, account string, value []byte) error

	// Delete removes the value for (service, account). Missing entries are not an error.
	Delete(ctx context.Context, service, account string) error
}

// KeyProvider hands out the current master key.
type KeyProvider interface {
	CurrentKey(ctx context.Context) (*cryptoDomain.MasterKey, error)
}

// KeyVault owns the lifecycle of the master key.
type KeyVault interface {
	KeyProvider

	// Rotate replaces the current key with a fresh one of the next generation.
	// Blobs sealed under the previous key become undecryptable.
	Rotate(ctx context.Context) (*cryptoDomain.MasterKey, error)

	// HasKey reports whether a key is cached or persisted, without creating one.
	HasKey(ctx context.Context) (bool, error)

	// DeleteKey removes the persisted key and drops the cache.
	DeleteKey(ctx context.Context) error
}

// Box seals and opens payloads under the current master key.
type Box interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, blob []byte) ([]byte, error)
	EncryptString(ctx context.Context, plaintext string) ([]byte, error)
	DecryptString(ctx context.Context, blob []byte) (string, error)
}
