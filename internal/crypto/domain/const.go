package domain

// Algorithm represents the AEAD construction used to seal payloads.
//
// Both supported algorithms use a 256-bit key, a 96-bit random nonce per call
// and a 128-bit authentication tag, so blobs have the same framing either way.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred without AES hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the master key length in bytes.
	KeySize = 32

	// NonceSize is the per-call nonce length in bytes.
	NonceSize = 12

	// TagSize is the authentication tag length in bytes.
	TagSize = 16

	// generationSize is the length of the generation prefix in a key record.
	generationSize = 8

	// KeyRecordSize is the length of a persisted key record: generation followed by key.
	KeyRecordSize = generationSize + KeySize
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM, ChaCha20:
		return Algorithm(name), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
