// Package mocks provides mock implementations of the secret store interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/scheduler"
	secretsDomain "github.com/prateekro/trayme-guard/internal/secrets/domain"
)

// MockItemRepository is a mock implementation of ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

// Create mocks the Create method of ItemRepository.
func (m *MockItemRepository) Create(ctx context.Context, item *secretsDomain.SelfDestructingItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// Get mocks the Get method of ItemRepository.
func (m *MockItemRepository) Get(ctx context.Context, id uuid.UUID) (*secretsDomain.SelfDestructingItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SelfDestructingItem), args.Error(1)
}

// Delete mocks the Delete method of ItemRepository.
func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListExpired mocks the ListExpired method of ItemRepository.
func (m *MockItemRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.SelfDestructingItem), args.Error(1)
}

// ListPending mocks the ListPending method of ItemRepository.
func (m *MockItemRepository) ListPending(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.SelfDestructingItem), args.Error(1)
}

// MockGate is a mock implementation of Gate.
type MockGate struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of Gate.
func (m *MockGate) Authenticate(ctx context.Context, reason string) (bool, error) {
	args := m.Called(ctx, reason)
	return args.Bool(0), args.Error(1)
}

// Session mocks the Session method of Gate.
func (m *MockGate) Session() authDomain.Session {
	args := m.Called()
	return args.Get(0).(authDomain.Session)
}

// AuthenticateForSensitiveContent mocks the AuthenticateForSensitiveContent method of Gate.
func (m *MockGate) AuthenticateForSensitiveContent(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// LockEpoch mocks the LockEpoch method of Gate.
func (m *MockGate) LockEpoch() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// MockSecretStore is a mock implementation of SecretStore.
type MockSecretStore struct {
	mock.Mock
}

// Store mocks the Store method of SecretStore.
func (m *MockSecretStore) Store(
	ctx context.Context,
	plaintext []byte,
	kind string,
	ttl time.Duration,
) (uuid.UUID, error) {
	args := m.Called(ctx, plaintext, kind, ttl)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// Retrieve mocks the Retrieve method of SecretStore.
func (m *MockSecretStore) Retrieve(ctx context.Context, id uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Delete mocks the Delete method of SecretStore.
func (m *MockSecretStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Restore mocks the Restore method of SecretStore.
func (m *MockSecretStore) Restore(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// PurgeExpired mocks the PurgeExpired method of SecretStore.
func (m *MockSecretStore) PurgeExpired(ctx context.Context, dryRun bool) (*secretsDomain.PurgeReport, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.PurgeReport), args.Error(1)
}

// StartSweep mocks the StartSweep method of SecretStore.
func (m *MockSecretStore) StartSweep(ctx context.Context, interval time.Duration) scheduler.Job {
	args := m.Called(ctx, interval)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(scheduler.Job)
}

// Close mocks the Close method of SecretStore.
func (m *MockSecretStore) Close() {
	m.Called()
}
