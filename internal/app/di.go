// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"

	authHTTP "github.com/prateekro/trayme-guard/internal/auth/http"
	authService "github.com/prateekro/trayme-guard/internal/auth/service"
	authUseCase "github.com/prateekro/trayme-guard/internal/auth/usecase"
	classifierHTTP "github.com/prateekro/trayme-guard/internal/classifier/http"
	classifierService "github.com/prateekro/trayme-guard/internal/classifier/service"
	"github.com/prateekro/trayme-guard/internal/config"
	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	cryptoService "github.com/prateekro/trayme-guard/internal/crypto/service"
	"github.com/prateekro/trayme-guard/internal/database"
	"github.com/prateekro/trayme-guard/internal/http"
	"github.com/prateekro/trayme-guard/internal/lifecycle"
	"github.com/prateekro/trayme-guard/internal/metrics"
	"github.com/prateekro/trayme-guard/internal/scheduler"
	secretsHTTP "github.com/prateekro/trayme-guard/internal/secrets/http"
	secretsUseCase "github.com/prateekro/trayme-guard/internal/secrets/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// ctx scopes background work started while wiring (rate limiter cleanup).
	ctx    context.Context
	cancel context.CancelFunc

	// Infrastructure
	logger    *slog.Logger
	db        *sql.DB
	clock     clockwork.Clock
	scheduler scheduler.Scheduler

	// Managers
	txManager database.TxManager

	// Crypto
	kmsService cryptoService.KMSService
	kmsKeeper  cryptoDomain.KMSKeeper
	keyStore   cryptoService.KeyStore
	keyVault   cryptoService.KeyVault
	cryptoBox  cryptoService.Box

	// Classifier
	classifier classifierService.Classifier

	// Auth
	passcodeService     authService.PasscodeService
	authenticator       authService.Authenticator
	accessLogRepository authUseCase.AccessLogRepository
	accessGate          authUseCase.AccessGate

	// Secrets
	itemRepository secretsUseCase.ItemRepository
	secretStore    secretsUseCase.SecretStore

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Handlers
	classifierHandler *classifierHTTP.ClassifierHandler
	sessionHandler    *authHTTP.SessionHandler
	itemHandler       *secretsHTTP.ItemHandler

	// Servers and Workers
	httpServer       *http.Server
	metricsServer    *http.MetricsServer
	lifecycleWatcher *lifecycle.Watcher

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	clockInit               sync.Once
	txManagerInit           sync.Once
	kmsServiceInit          sync.Once
	keyStoreInit            sync.Once
	keyVaultInit            sync.Once
	cryptoBoxInit           sync.Once
	classifierInit          sync.Once
	passcodeServiceInit     sync.Once
	authenticatorInit       sync.Once
	accessLogRepositoryInit sync.Once
	accessGateInit          sync.Once
	itemRepositoryInit      sync.Once
	secretStoreInit         sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	classifierHandlerInit   sync.Once
	sessionHandlerInit      sync.Once
	itemHandlerInit         sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	lifecycleWatcherInit    sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// SetClock replaces the clock used by the scheduler. It must be called before
// any component that schedules work is built.
func (c *Container) SetClock(clock clockwork.Clock) {
	c.clockInit.Do(func() {
		c.clock = clock
		c.scheduler = scheduler.New(clock)
	})
}

// Scheduler returns the scheduler shared by the access gate and the secret store.
func (c *Container) Scheduler() scheduler.Scheduler {
	c.SetClock(clockwork.NewRealClock())
	return c.scheduler
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// LifecycleWatcher returns the watcher that locks the session on sleep and screen lock.
func (c *Container) LifecycleWatcher() (*lifecycle.Watcher, error) {
	var err error
	c.lifecycleWatcherInit.Do(func() {
		c.lifecycleWatcher, err = c.initLifecycleWatcher()
		if err != nil {
			c.initErrors["lifecycleWatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["lifecycleWatcher"]; exists {
		return nil, storedErr
	}
	return c.lifecycleWatcher, nil
}

// Shutdown performs cleanup of all initialized resources.
// Pending deletion timers are cancelled; their rows are picked up by the next Restore.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	c.cancel()

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.secretStore != nil {
		c.secretStore.Close()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.kmsKeeper != nil {
		if err := c.kmsKeeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the Prometheus-backed meter provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder, or a no-op one when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	classifierHandler := c.ClassifierHandler()

	sessionHandler, err := c.SessionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get session handler for http server: %w", err)
	}

	itemHandler, err := c.ItemHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get item handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.ctx, c.config, classifierHandler, sessionHandler, itemHandler, metricsProvider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

// initLifecycleWatcher creates the signal watcher bound to the access gate.
func (c *Container) initLifecycleWatcher() (*lifecycle.Watcher, error) {
	gate, err := c.AccessGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get access gate for lifecycle watcher: %w", err)
	}
	return lifecycle.NewWatcher(gate, c.Logger()), nil
}
