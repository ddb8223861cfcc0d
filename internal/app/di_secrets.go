package app

import (
	"fmt"

	"github.com/prateekro/trayme-guard/internal/database"
	secretsHTTP "github.com/prateekro/trayme-guard/internal/secrets/http"
	secretsRepository "github.com/prateekro/trayme-guard/internal/secrets/repository"
	secretsUseCase "github.com/prateekro/trayme-guard/internal/secrets/usecase"
)

// ItemRepository returns the self-destructing item repository based on database driver.
func (c *Container) ItemRepository() (secretsUseCase.ItemRepository, error) {
	var err error
	c.itemRepositoryInit.Do(func() {
		c.itemRepository, err = c.initItemRepository()
		if err != nil {
			c.initErrors["itemRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["itemRepository"]; exists {
		return nil, storedErr
	}
	return c.itemRepository, nil
}

// SecretStore returns the self-destructing secret store.
func (c *Container) SecretStore() (secretsUseCase.SecretStore, error) {
	var err error
	c.secretStoreInit.Do(func() {
		c.secretStore, err = c.initSecretStore()
		if err != nil {
			c.initErrors["secretStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretStore"]; exists {
		return nil, storedErr
	}
	return c.secretStore, nil
}

// ItemHandler returns the HTTP handler for self-destructing items.
func (c *Container) ItemHandler() (*secretsHTTP.ItemHandler, error) {
	var err error
	c.itemHandlerInit.Do(func() {
		c.itemHandler, err = c.initItemHandler()
		if err != nil {
			c.initErrors["itemHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["itemHandler"]; exists {
		return nil, storedErr
	}
	return c.itemHandler, nil
}

// initItemRepository creates the item repository based on the database driver.
func (c *Container) initItemRepository() (secretsUseCase.ItemRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for item repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLItemRepository(db), nil
	case database.DriverMySQL:
		return secretsRepository.NewMySQLItemRepository(db), nil
	case database.DriverSQLite:
		return secretsRepository.NewSQLiteItemRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretStore creates the secret store with all its dependencies.
func (c *Container) initSecretStore() (secretsUseCase.SecretStore, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret store: %w", err)
	}

	itemRepository, err := c.ItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get item repository for secret store: %w", err)
	}

	box, err := c.CryptoBox()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto box for secret store: %w", err)
	}

	gate, err := c.AccessGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get access gate for secret store: %w", err)
	}

	baseStore := secretsUseCase.NewSecretStore(txManager, itemRepository, box, gate, c.Scheduler(), c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret store: %w", err)
		}
		return secretsUseCase.NewSecretStoreWithMetrics(baseStore, businessMetrics), nil
	}

	return baseStore, nil
}

// initItemHandler creates the item HTTP handler with all its dependencies.
func (c *Container) initItemHandler() (*secretsHTTP.ItemHandler, error) {
	store, err := c.SecretStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret store for item handler: %w", err)
	}

	return secretsHTTP.NewItemHandler(store, c.Logger()), nil
}
