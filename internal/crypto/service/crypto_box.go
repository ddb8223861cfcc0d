package service

import (
	"context"
	"unicode/utf8"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// CryptoBox seals payloads under the current master key.
//
// Blob layout: nonce (12 bytes) || ciphertext || tag (16 bytes). A blob opens
// only under the key generation that sealed it.
type CryptoBox struct {
	keys        KeyProvider
	aeadManager AEADManager
	alg         cryptoDomain.Algorithm
}

// NewCryptoBox creates a CryptoBox backed by the given key provider.
func NewCryptoBox(keys KeyProvider, aeadManager AEADManager, alg cryptoDomain.Algorithm) *CryptoBox {
	return &CryptoBox{
		keys:        keys,
		aeadManager: aeadManager,
		alg:         alg,
	}
}

// Encrypt seals plaintext. It fails only when no key can be produced or the
// cipher cannot be built.
func (b *CryptoBox) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	key, err := b.keys.CurrentKey(ctx)
	if err != nil {
		return nil, keyUnavailable(err)
	}

	var blob []byte
	err = key.WithBytes(func(raw []byte) error {
		cipher, err := b.aeadManager.CreateCipher(raw, b.alg)
		if err != nil {
			return apperrors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
		}

		ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
		if err != nil {
			return apperrors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
		}

		blob = make([]byte, 0, len(nonce)+len(ciphertext))
		blob = append(blob, nonce...)
		blob = append(blob, ciphertext...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Decrypt opens a blob produced by Encrypt. Every failure to open, whatever
// its cause, is reported as ErrDecryptionFailed.
func (b *CryptoBox) Decrypt(ctx context.Context, blob []byte) ([]byte, error) {
	if len(blob) < cryptoDomain.NonceSize+cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	key, err := b.keys.CurrentKey(ctx)
	if err != nil {
		return nil, keyUnavailable(err)
	}

	var plaintext []byte
	err = key.WithBytes(func(raw []byte) error {
		cipher, err := b.aeadManager.CreateCipher(raw, b.alg)
		if err != nil {
			return cryptoDomain.ErrDecryptionFailed
		}

		nonce := blob[:cryptoDomain.NonceSize]
		ciphertext := blob[cryptoDomain.NonceSize:]
		plaintext, err = cipher.Decrypt(ciphertext, nonce, nil)
		if err != nil {
			return cryptoDomain.ErrDecryptionFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// EncryptString seals the UTF-8 bytes of plaintext.
func (b *CryptoBox) EncryptString(ctx context.Context, plaintext string) ([]byte, error) {
	return b.Encrypt(ctx, []byte(plaintext))
}

// DecryptString opens blob and returns it as text. Bytes that are not valid
// UTF-8 are zeroed and reported as ErrInvalidUTF8.
func (b *CryptoBox) DecryptString(ctx context.Context, blob []byte) (string, error) {
	plaintext, err := b.Decrypt(ctx, blob)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	if !utf8.Valid(plaintext) {
		return "", cryptoDomain.ErrInvalidUTF8
	}
	return string(plaintext), nil
}

func keyUnavailable(err error) error {
	if apperrors.Is(err, cryptoDomain.ErrKeyUnavailable) {
		return err
	}
	return apperrors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
}
