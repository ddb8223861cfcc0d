package service

import (
	"context"
	"log/slog"
	"sync"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// KeyVaultService caches the master key and persists it in a KeyStore under
// a fixed (service, account) slot. One mutex serializes every cache and store
// access, so no caller observes a half-rotated key.
type KeyVaultService struct {
	store   KeyStore
	service string
	account string
	logger  *slog.Logger

	mu     sync.Mutex
	cached *cryptoDomain.MasterKey
}

// NewKeyVault creates a KeyVaultService over store.
func NewKeyVault(store KeyStore, service, account string, logger *slog.Logger) *KeyVaultService {
	return &KeyVaultService{
		store:   store,
		service: service,
		account: account,
		logger:  logger,
	}
}

// CurrentKey returns the cached key, loading it from the store or generating
// and persisting a first key when none exists.
func (v *KeyVaultService) CurrentKey(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cached != nil {
		return v.cached, nil
	}

	key, err := v.load(ctx)
	if err == nil {
		v.cached = key
		return key, nil
	}
	if !apperrors.Is(err, cryptoDomain.ErrKeyNotFound) {
		return nil, err
	}

	key = cryptoDomain.GenerateMasterKey(1)
	if err := v.persist(ctx, key); err != nil {
		return nil, err
	}
	v.cached = key
	v.logger.Info("master key created", slog.Uint64("generation", key.Generation()))
	return key, nil
}

// Rotate replaces the key with a fresh one of the next generation. The new
// key is written over the old slot before the cache is swapped, so a failed
// write leaves the previous key in place.
func (v *KeyVaultService) Rotate(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var generation uint64
	switch {
	case v.cached != nil:
		generation = v.cached.Generation()
	default:
		current, err := v.load(ctx)
		switch {
		case err == nil:
			generation = current.Generation()
		case apperrors.Is(err, cryptoDomain.ErrKeyNotFound):
			generation = 0
		default:
			return nil, err
		}
	}

	key := cryptoDomain.GenerateMasterKey(generation + 1)
	if err := v.persist(ctx, key); err != nil {
		return nil, err
	}
	v.cached = key
	v.logger.Info("master key rotated",
		slog.Uint64("previous_generation", generation),
		slog.Uint64("generation", key.Generation()),
	)
	return key, nil
}

// HasKey reports whether a key exists. It never creates one.
func (v *KeyVaultService) HasKey(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cached != nil {
		return true, nil
	}

	record, err := v.store.Get(ctx, v.service, v.account)
	if err != nil {
		if apperrors.Is(err, cryptoDomain.ErrKeyNotFound) {
			return false, nil
		}
		return false, keyUnavailable(err)
	}
	cryptoDomain.Zero(record)
	return true, nil
}

// DeleteKey removes the persisted key and drops the cached copy.
func (v *KeyVaultService) DeleteKey(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.Delete(ctx, v.service, v.account); err != nil {
		return keyUnavailable(err)
	}
	v.cached = nil
	v.logger.Warn("master key deleted")
	return nil
}

func (v *KeyVaultService) load(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	record, err := v.store.Get(ctx, v.service, v.account)
	if err != nil {
		if apperrors.Is(err, cryptoDomain.ErrKeyNotFound) {
			return nil, err
		}
		return nil, keyUnavailable(err)
	}

	key, err := cryptoDomain.ParseKeyRecord(record)
	if err != nil {
		return nil, keyUnavailable(err)
	}
	return key, nil
}

func (v *KeyVaultService) persist(ctx context.Context, key *cryptoDomain.MasterKey) error {
	record, err := key.MarshalRecord()
	if err != nil {
		return keyUnavailable(err)
	}
	defer cryptoDomain.Zero(record)

	if err := v.store.Put(ctx, v.service, v.account, record); err != nil {
		return keyUnavailable(err)
	}
	return nil
}
