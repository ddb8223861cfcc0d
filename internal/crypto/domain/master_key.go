package domain

import (
	"encoding/binary"

	"github.com/awnumar/memguard"
)

// MasterKey is an opaque handle to the active 256-bit key. The key material is
// sealed in a memguard enclave and only exposed for the duration of WithBytes.
type MasterKey struct {
	generation uint64
	enclave    *memguard.Enclave
}

// NewMasterKey seals key into a new handle. The key slice is wiped.
func NewMasterKey(generation uint64, key []byte) (*MasterKey, error) {
	if len(key) != KeySize {
		Zero(key)
		return nil, ErrInvalidKeySize
	}
	return &MasterKey{
		generation: generation,
		enclave:    memguard.NewEnclave(key),
	}, nil
}

// GenerateMasterKey creates a fresh random key for the given generation.
func GenerateMasterKey(generation uint64) *MasterKey {
	return &MasterKey{
		generation: generation,
		enclave:    memguard.NewEnclaveRandom(KeySize),
	}
}

// Generation returns the rotation counter of the key. The first key is generation 1.
func (k *MasterKey) Generation() uint64 {
	return k.generation
}

// WithBytes opens the enclave and passes the raw key to fn. The buffer is
// destroyed when fn returns, so fn must not retain the slice.
func (k *MasterKey) WithBytes(fn func(key []byte) error) error {
	if k == nil || k.enclave == nil {
		return ErrKeyUnavailable
	}
	buf, err := k.enclave.Open()
	if err != nil {
		return ErrKeyUnavailable
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// MarshalRecord encodes the key as generation (8 bytes, big endian) followed
// by the key. The caller must Zero the result after use.
func (k *MasterKey) MarshalRecord() ([]byte, error) {
	record := make([]byte, KeyRecordSize)
	binary.BigEndian.PutUint64(record[:generationSize], k.generation)
	err := k.WithBytes(func(key []byte) error {
		copy(record[generationSize:], key)
		return nil
	})
	if err != nil {
		Zero(record)
		return nil, err
	}
	return record, nil
}

// ParseKeyRecord decodes a record produced by MarshalRecord. The record is wiped.
func ParseKeyRecord(record []byte) (*MasterKey, error) {
	if len(record) != KeyRecordSize {
		Zero(record)
		return nil, ErrInvalidKeyRecord
	}
	generation := binary.BigEndian.Uint64(record[:generationSize])
	key, err := NewMasterKey(generation, record[generationSize:])
	Zero(record)
	return key, err
}
