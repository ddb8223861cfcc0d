package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/auth/service/mocks"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
	"github.com/prateekro/trayme-guard/internal/testutil"
)

func TestPasscodeService(t *testing.T) {
	svc := NewPasscodeService()

	hash, err := svc.HashPasscode([]byte("1234-open"))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, "1234-open")

	assert.True(t, svc.VerifyPasscode([]byte("1234-open"), hash))
	assert.False(t, svc.VerifyPasscode([]byte("wrong"), hash))
	assert.False(t, svc.VerifyPasscode([]byte("1234-open"), "not-a-hash"))
	assert.False(t, svc.VerifyPasscode(nil, hash))

	_, err = svc.HashPasscode(nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPasscodePlatform(t *testing.T) {
	ctx := context.Background()
	svc := NewPasscodeService()
	hash, err := svc.HashPasscode([]byte("s3cret"))
	require.NoError(t, err)

	t.Run("accepts the right passcode", func(t *testing.T) {
		platform := NewPasscodePlatform(hash, NewContextCredentialSource(), svc)

		ok, err := platform.Authenticate(WithPasscode(ctx, []byte("s3cret")), "unlock")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, authDomain.BiometryNone, platform.Kind())
	})

	t.Run("rejects the wrong passcode", func(t *testing.T) {
		platform := NewPasscodePlatform(hash, NewContextCredentialSource(), svc)

		ok, err := platform.Authenticate(WithPasscode(ctx, []byte("guess")), "unlock")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing passcode", func(t *testing.T) {
		platform := NewPasscodePlatform(hash, NewContextCredentialSource(), svc)

		ok, err := platform.Authenticate(ctx, "unlock")
		assert.False(t, ok)
		assert.ErrorIs(t, err, authDomain.ErrNoCredential)
	})

	t.Run("zeroes the passcode after use", func(t *testing.T) {
		code := []byte("s3cret")
		source := &mocks.MockCredentialSource{}
		source.On("Passcode", ctx, "unlock").Return(code, nil)
		platform := NewPasscodePlatform(hash, source, svc)

		ok, err := platform.Authenticate(ctx, "unlock")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, make([]byte, 6), code)
	})

	t.Run("unavailable without hash", func(t *testing.T) {
		platform := NewPasscodePlatform("", NewContextCredentialSource(), svc)

		ok, err := platform.CanAuthenticate(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = NewPasscodePlatform(hash, nil, svc).CanAuthenticate(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("through the authenticator", func(t *testing.T) {
		platform := NewPasscodePlatform(hash, NewContextCredentialSource(), svc)
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.False(t, auth.Authenticate(ctx, "unlock"))
		assert.Equal(t, authDomain.ErrNoCredential.Error(), auth.LastError())
		assert.True(t, auth.Authenticate(WithPasscode(ctx, []byte("s3cret")), "unlock"))
	})
}

func TestContextCredentialSource(t *testing.T) {
	original := []byte("abc")
	ctx := WithPasscode(context.Background(), original)
	original[0] = 'x'

	code, err := NewContextCredentialSource().Passcode(ctx, "reason")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), code)

	code[0] = 'z'
	again, err := NewContextCredentialSource().Passcode(ctx, "reason")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestTerminalCredentialSource_NotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
		_ = w.Close()
	}()

	source := NewTerminalCredentialSource(int(r.Fd()), w)
	_, err = source.Passcode(context.Background(), "unlock")
	assert.ErrorIs(t, err, authDomain.ErrNoCredential)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.Passcode(cancelled, "unlock")
	assert.ErrorIs(t, err, context.Canceled)
}
