package app

import (
	"fmt"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	cryptoRepository "github.com/prateekro/trayme-guard/internal/crypto/repository"
	cryptoService "github.com/prateekro/trayme-guard/internal/crypto/service"
	"github.com/prateekro/trayme-guard/internal/database"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyStore returns the secure key store holding the master key record. When
// KMS_KEY_URI is set the record is sealed by the KMS keeper before it is stored.
func (c *Container) KeyStore() (cryptoService.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// KeyVault returns the key vault owning the master key.
func (c *Container) KeyVault() (cryptoService.KeyVault, error) {
	var err error
	c.keyVaultInit.Do(func() {
		c.keyVault, err = c.initKeyVault()
		if err != nil {
			c.initErrors["keyVault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyVault"]; exists {
		return nil, storedErr
	}
	return c.keyVault, nil
}

// CryptoBox returns the crypto box sealing payloads under the master key.
func (c *Container) CryptoBox() (cryptoService.Box, error) {
	var err error
	c.cryptoBoxInit.Do(func() {
		c.cryptoBox, err = c.initCryptoBox()
		if err != nil {
			c.initErrors["cryptoBox"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoBox"]; exists {
		return nil, storedErr
	}
	return c.cryptoBox, nil
}

// initKeyStore creates the SQL key store for the configured driver and wraps it with KMS sealing.
func (c *Container) initKeyStore() (cryptoService.KeyStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key store: %w", err)
	}

	var store cryptoService.KeyStore
	switch c.config.DBDriver {
	case database.DriverPostgres:
		store = cryptoRepository.NewPostgreSQLKeyStore(db)
	case database.DriverMySQL:
		store = cryptoRepository.NewMySQLKeyStore(db)
	case database.DriverSQLite:
		store = cryptoRepository.NewSQLiteKeyStore(db)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	if c.config.KMSKeyURI == "" {
		return store, nil
	}

	keeper, err := c.KMSService().OpenKeeper(c.ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper for key store: %w", err)
	}
	c.kmsKeeper = keeper

	return cryptoService.NewKMSKeyStore(store, keeper), nil
}

// initKeyVault creates the key vault over the key store.
func (c *Container) initKeyVault() (cryptoService.KeyVault, error) {
	store, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for key vault: %w", err)
	}

	return cryptoService.NewKeyVault(store, c.config.KeyServiceID, c.config.KeyAccount, c.Logger()), nil
}

// initCryptoBox creates the crypto box with the configured algorithm.
func (c *Container) initCryptoBox() (cryptoService.Box, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CryptoAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid crypto algorithm %q: %w", c.config.CryptoAlgorithm, err)
	}

	keyVault, err := c.KeyVault()
	if err != nil {
		return nil, fmt.Errorf("failed to get key vault for crypto box: %w", err)
	}

	return cryptoService.NewCryptoBox(keyVault, cryptoService.NewAEADManager(), alg), nil
}
