// Package mocks provides mock implementations of the access gate interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/scheduler"
)

// MockAccessLogRepository is a mock implementation of AccessLogRepository.
type MockAccessLogRepository struct {
	mock.Mock
}

// Create mocks the Create method of AccessLogRepository.
func (m *MockAccessLogRepository) Create(ctx context.Context, entry *authDomain.AccessLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// List mocks the List method of AccessLogRepository.
func (m *MockAccessLogRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AccessLog), args.Error(1)
}

// MockAccessGate is a mock implementation of AccessGate.
type MockAccessGate struct {
	mock.Mock
}

// Lock mocks the Lock method of AccessGate.
func (m *MockAccessGate) Lock(ctx context.Context, reason authDomain.LockReason) {
	m.Called(ctx, reason)
}

// CheckInactivity mocks the CheckInactivity method of AccessGate.
func (m *MockAccessGate) CheckInactivity(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// HandleSystemEvent mocks the HandleSystemEvent method of AccessGate.
func (m *MockAccessGate) HandleSystemEvent(ctx context.Context, event authDomain.SystemEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Authenticate mocks the Authenticate method of AccessGate.
func (m *MockAccessGate) Authenticate(ctx context.Context, reason string) (bool, error) {
	args := m.Called(ctx, reason)
	return args.Bool(0), args.Error(1)
}

// AuthenticateForSensitiveContent mocks the AuthenticateForSensitiveContent method of AccessGate.
func (m *MockAccessGate) AuthenticateForSensitiveContent(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// UpdateActivity mocks the UpdateActivity method of AccessGate.
func (m *MockAccessGate) UpdateActivity() {
	m.Called()
}

// Session mocks the Session method of AccessGate.
func (m *MockAccessGate) Session() authDomain.Session {
	args := m.Called()
	return args.Get(0).(authDomain.Session)
}

// Subscribe mocks the Subscribe method of AccessGate.
func (m *MockAccessGate) Subscribe(fn func(authDomain.Session)) func() {
	args := m.Called(fn)
	if args.Get(0) == nil {
		return func() {}
	}
	return args.Get(0).(func())
}

// SetAutoLockMinutes mocks the SetAutoLockMinutes method of AccessGate.
func (m *MockAccessGate) SetAutoLockMinutes(minutes int) error {
	args := m.Called(minutes)
	return args.Error(0)
}

// SetRequireAuthForSensitive mocks the SetRequireAuthForSensitive method of AccessGate.
func (m *MockAccessGate) SetRequireAuthForSensitive(require bool) {
	m.Called(require)
}

// LockEpoch mocks the LockEpoch method of AccessGate.
func (m *MockAccessGate) LockEpoch() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// LastAuthError mocks the LastAuthError method of AccessGate.
func (m *MockAccessGate) LastAuthError() string {
	args := m.Called()
	return args.String(0)
}

// ListAccessLog mocks the ListAccessLog method of AccessGate.
func (m *MockAccessGate) ListAccessLog(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AccessLog), args.Error(1)
}

// StartAutoLock mocks the StartAutoLock method of AccessGate.
func (m *MockAccessGate) StartAutoLock(ctx context.Context, interval time.Duration) scheduler.Job {
	args := m.Called(ctx, interval)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(scheduler.Job)
}
