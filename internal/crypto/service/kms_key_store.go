package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
)

// KMSService opens the keeper named by KMS_KEY_URI.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct {
	opener *secrets.URLMux
}

// NewKMSService returns a KMSService over the gocloud.dev default URL mux
// (awskms, azurekeyvault, gcpkms, hashivault and base64key).
func NewKMSService() KMSService {
	return &kmsService{opener: secrets.DefaultURLMux()}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	if !k.opener.ValidKeeperScheme(u.Scheme) {
		return nil, fmt.Errorf("failed to open KMS keeper: unsupported scheme %q", u.Scheme)
	}

	keeper, err := k.opener.OpenKeeperURL(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// KMSKeyStore seals values with a KMS keeper before handing them to the
// underlying KeyStore, so the persisted key record is unreadable without
// access to the KMS key.
type KMSKeyStore struct {
	next   KeyStore
	keeper cryptoDomain.KMSKeeper
}

// NewKMSKeyStore wraps next with keeper.
func NewKMSKeyStore(next KeyStore, keeper cryptoDomain.KMSKeeper) *KMSKeyStore {
	return &KMSKeyStore{next: next, keeper: keeper}
}

// Get loads and unseals the value.
func (k *KMSKeyStore) Get(ctx context.Context, service, account string) ([]byte, error) {
	sealed, err := k.next.Get(ctx, service, account)
	if err != nil {
		return nil, err
	}

	value, err := k.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal key record: %w", err)
	}
	return value, nil
}

// Put seals and stores the value.
func (k *KMSKeyStore) Put(ctx context.Context, service, account string, value []byte) error {
	sealed, err := k.keeper.Encrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to seal key record: %w", err)
	}
	return k.next.Put(ctx, service, account, sealed)
}

// Delete removes the value.
func (k *KMSKeyStore) Delete(ctx context.Context, service, account string) error {
	return k.next.Delete(ctx, service, account)
}
