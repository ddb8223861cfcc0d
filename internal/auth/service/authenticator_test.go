package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/auth/service/mocks"
	"github.com/prateekro/trayme-guard/internal/testutil"
)

func TestPlatformAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("CanAuthenticate", ctx).Return(true, nil)
		platform.On("Authenticate", ctx, "unlock").Return(true, nil)
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.True(t, auth.Authenticate(ctx, "unlock"))
		assert.Empty(t, auth.LastError())
		platform.AssertExpectations(t)
	})

	t.Run("Declined", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("CanAuthenticate", ctx).Return(true, nil)
		platform.On("Authenticate", ctx, "unlock").Return(false, nil)
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.False(t, auth.Authenticate(ctx, "unlock"))
		assert.Equal(t, "authentication failed", auth.LastError())
	})

	t.Run("PlatformError", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("CanAuthenticate", ctx).Return(true, nil)
		platform.On("Authenticate", ctx, "unlock").Return(false, errors.New("biometry locked out"))
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.False(t, auth.Authenticate(ctx, "unlock"))
		assert.Equal(t, "biometry locked out", auth.LastError())
	})

	t.Run("Unavailable", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("CanAuthenticate", ctx).Return(false, nil)
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.False(t, auth.Authenticate(ctx, "unlock"))
		assert.Equal(t, "authentication is not available on this device", auth.LastError())
		platform.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("CancelledBeforePrompt", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		platform := &mocks.MockPlatform{}
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.False(t, auth.Authenticate(cancelled, "unlock"))
		assert.Equal(t, "authentication cancelled", auth.LastError())
		platform.AssertNotCalled(t, "CanAuthenticate", mock.Anything)
	})

	t.Run("CancelledDuringPrompt", func(t *testing.T) {
		promptCtx, cancel := context.WithCancel(ctx)
		release := make(chan struct{})
		defer close(release)

		platform := &mocks.MockPlatform{}
		platform.On("CanAuthenticate", promptCtx).Return(true, nil)
		platform.On("Authenticate", promptCtx, "unlock").
			Run(func(mock.Arguments) { <-release }).
			Return(true, nil)
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		time.AfterFunc(10*time.Millisecond, cancel)
		assert.False(t, auth.Authenticate(promptCtx, "unlock"))
		assert.Equal(t, "authentication cancelled", auth.LastError())
	})

	t.Run("SuccessClearsLastError", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("CanAuthenticate", ctx).Return(true, nil)
		platform.On("Authenticate", ctx, "first").Return(false, nil).Once()
		platform.On("Authenticate", ctx, "second").Return(true, nil).Once()
		auth := NewAuthenticator(platform, testutil.DiscardLogger())

		assert.False(t, auth.Authenticate(ctx, "first"))
		assert.NotEmpty(t, auth.LastError())
		assert.True(t, auth.Authenticate(ctx, "second"))
		assert.Empty(t, auth.LastError())
	})
}

func TestPlatformAuthenticator_Capabilities(t *testing.T) {
	ctx := context.Background()
	platform := &mocks.MockPlatform{}
	platform.On("CanAuthenticate", ctx).Return(false, errors.New("no sensor")).Once()
	platform.On("CanAuthenticate", ctx).Return(true, nil).Once()
	platform.On("Kind").Return(authDomain.BiometryFingerprint)
	auth := NewAuthenticator(platform, testutil.DiscardLogger())

	assert.False(t, auth.IsAvailable(ctx))
	assert.True(t, auth.IsAvailable(ctx))
	assert.Equal(t, authDomain.BiometryFingerprint, auth.Kind())
}
