package service

import (
	"bytes"
	"context"
	"sync"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
)

type keySlot struct {
	service string
	account string
}

// MemoryKeyStore is a process-local KeyStore. Values are copied in and out.
type MemoryKeyStore struct {
	mu     sync.RWMutex
	values map[keySlot][]byte
}

// NewMemoryKeyStore creates an empty MemoryKeyStore.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{values: make(map[keySlot][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryKeyStore) Get(_ context.Context, service, account string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[keySlot{service, account}]
	if !ok {
		return nil, cryptoDomain.ErrKeyNotFound
	}
	return bytes.Clone(value), nil
}

// Put stores a copy of value, wiping any previous value.
func (m *MemoryKeyStore) Put(_ context.Context, service, account string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := keySlot{service, account}
	if old, ok := m.values[slot]; ok {
		cryptoDomain.Zero(old)
	}
	m.values[slot] = bytes.Clone(value)
	return nil
}

// Delete wipes and removes the stored value.
func (m *MemoryKeyStore) Delete(_ context.Context, service, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := keySlot{service, account}
	if old, ok := m.values[slot]; ok {
		cryptoDomain.Zero(old)
		delete(m.values, slot)
	}
	return nil
}
