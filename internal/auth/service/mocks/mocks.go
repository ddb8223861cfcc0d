// Package mocks provides mock implementations of the authentication services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

// MockPlatform is a mock implementation of Platform.
type MockPlatform struct {
	mock.Mock
}

// CanAuthenticate mocks the CanAuthenticate method of Platform.
func (m *MockPlatform) CanAuthenticate(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// Authenticate mocks the Authenticate method of Platform.
func (m *MockPlatform) Authenticate(ctx context.Context, reason string) (bool, error) {
	args := m.Called(ctx, reason)
	return args.Bool(0), args.Error(1)
}

// Kind mocks the Kind method of Platform.
func (m *MockPlatform) Kind() authDomain.BiometryKind {
	args := m.Called()
	return args.Get(0).(authDomain.BiometryKind)
}

// MockAuthenticator is a mock implementation of Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of Authenticator.
func (m *MockAuthenticator) Authenticate(ctx context.Context, reason string) bool {
	args := m.Called(ctx, reason)
	return args.Bool(0)
}

// IsAvailable mocks the IsAvailable method of Authenticator.
func (m *MockAuthenticator) IsAvailable(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Kind mocks the Kind method of Authenticator.
func (m *MockAuthenticator) Kind() authDomain.BiometryKind {
	args := m.Called()
	return args.Get(0).(authDomain.BiometryKind)
}

// LastError mocks the LastError method of Authenticator.
func (m *MockAuthenticator) LastError() string {
	args := m.Called()
	return args.String(0)
}

// MockCredentialSource is a mock implementation of CredentialSource.
type MockCredentialSource struct {
	mock.Mock
}

// Passcode mocks the Passcode method of CredentialSource.
func (m *MockCredentialSource) Passcode(ctx context.Context, reason string) ([]byte, error) {
	args := m.Called(ctx, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
