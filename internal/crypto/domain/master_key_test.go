package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMasterKey(t *testing.T) {
	t.Run("Success_WipesSource", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x42}, KeySize)

		key, err := NewMasterKey(3, raw)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), key.Generation())
		assert.Equal(t, make([]byte, KeySize), raw)

		err = key.WithBytes(func(b []byte) error {
			assert.Equal(t, bytes.Repeat([]byte{0x42}, KeySize), b)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("Error_InvalidSize", func(t *testing.T) {
		key, err := NewMasterKey(1, []byte("short"))
		assert.Nil(t, key)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})
}

func TestGenerateMasterKey(t *testing.T) {
	a := GenerateMasterKey(1)
	b := GenerateMasterKey(2)

	var first, second []byte
	require.NoError(t, a.WithBytes(func(k []byte) error {
		first = bytes.Clone(k)
		return nil
	}))
	require.NoError(t, b.WithBytes(func(k []byte) error {
		second = bytes.Clone(k)
		return nil
	}))

	assert.Len(t, first, KeySize)
	assert.NotEqual(t, first, second)
}

func TestMasterKey_WithBytesNil(t *testing.T) {
	var key *MasterKey
	err := key.WithBytes(func([]byte) error { return nil })
	assert.ErrorIs(t, err, ErrKeyUnavailable)
}

func TestMasterKey_Record(t *testing.T) {
	original := GenerateMasterKey(7)

	record, err := original.MarshalRecord()
	require.NoError(t, err)
	require.Len(t, record, KeyRecordSize)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 7}, record[:8])

	var want []byte
	require.NoError(t, original.WithBytes(func(k []byte) error {
		want = bytes.Clone(k)
		return nil
	}))

	parsed, err := ParseKeyRecord(record)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), parsed.Generation())
	assert.Equal(t, make([]byte, KeyRecordSize), record)
	require.NoError(t, parsed.WithBytes(func(k []byte) error {
		assert.Equal(t, want, k)
		return nil
	}))
}

func TestParseKeyRecord_InvalidLength(t *testing.T) {
	key, err := ParseKeyRecord([]byte{1, 2, 3})
	assert.Nil(t, key)
	assert.ErrorIs(t, err, ErrInvalidKeyRecord)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
