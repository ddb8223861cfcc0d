package app

import (
	"fmt"

	authHTTP "github.com/prateekro/trayme-guard/internal/auth/http"
	authRepository "github.com/prateekro/trayme-guard/internal/auth/repository"
	authService "github.com/prateekro/trayme-guard/internal/auth/service"
	authUseCase "github.com/prateekro/trayme-guard/internal/auth/usecase"
	"github.com/prateekro/trayme-guard/internal/database"
	"github.com/prateekro/trayme-guard/internal/metrics"
)

// PasscodeService returns the passcode hashing service.
func (c *Container) PasscodeService() authService.PasscodeService {
	c.passcodeServiceInit.Do(func() {
		c.passcodeService = authService.NewPasscodeService()
	})
	return c.passcodeService
}

// Authenticator returns the platform authenticator. The passcode is read from
// the request context, where the HTTP passcode middleware puts it.
func (c *Container) Authenticator() authService.Authenticator {
	c.authenticatorInit.Do(func() {
		platform := authService.NewPasscodePlatform(
			c.config.AuthPasscodeHash,
			authService.NewContextCredentialSource(),
			c.PasscodeService(),
		)
		c.authenticator = authService.NewAuthenticator(platform, c.Logger())
	})
	return c.authenticator
}

// AccessLogRepository returns the access log repository based on database driver.
func (c *Container) AccessLogRepository() (authUseCase.AccessLogRepository, error) {
	var err error
	c.accessLogRepositoryInit.Do(func() {
		c.accessLogRepository, err = c.initAccessLogRepository()
		if err != nil {
			c.initErrors["accessLogRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessLogRepository"]; exists {
		return nil, storedErr
	}
	return c.accessLogRepository, nil
}

// AccessGate returns the access gate.
func (c *Container) AccessGate() (authUseCase.AccessGate, error) {
	var err error
	c.accessGateInit.Do(func() {
		c.accessGate, err = c.initAccessGate()
		if err != nil {
			c.initErrors["accessGate"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessGate"]; exists {
		return nil, storedErr
	}
	return c.accessGate, nil
}

// SessionHandler returns the HTTP handler for session operations.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		c.sessionHandler, err = c.initSessionHandler()
		if err != nil {
			c.initErrors["sessionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// initAccessLogRepository creates the access log repository based on the database driver.
func (c *Container) initAccessLogRepository() (authUseCase.AccessLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access log repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return authRepository.NewPostgreSQLAccessLogRepository(db), nil
	case database.DriverMySQL:
		return authRepository.NewMySQLAccessLogRepository(db), nil
	case database.DriverSQLite:
		return authRepository.NewSQLiteAccessLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessGate creates the access gate with all its dependencies.
func (c *Container) initAccessGate() (authUseCase.AccessGate, error) {
	accessLogRepository, err := c.AccessLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access log repository for access gate: %w", err)
	}

	baseGate, err := authUseCase.NewAccessGate(
		c.Authenticator(),
		accessLogRepository,
		c.Scheduler(),
		authUseCase.AccessGateConfig{
			AutoLockMinutes:         c.config.AutoLockMinutes,
			RequireAuthForSensitive: c.config.RequireAuthForSensitive,
			AttemptsPerMinute:       c.config.AuthAttemptsPerMinute,
			AttemptBurst:            c.config.AuthAttemptBurst,
		},
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access gate: %w", err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for access gate: %w", err)
		}
		err = metrics.RegisterSessionGauges(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			func() (bool, uint64) {
				session := baseGate.Session()
				return session.IsUnlocked, session.LockEpoch
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register session gauges: %w", err)
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access gate: %w", err)
		}
		return authUseCase.NewAccessGateWithMetrics(baseGate, businessMetrics), nil
	}

	return baseGate, nil
}

// initSessionHandler creates the session HTTP handler with all its dependencies.
func (c *Container) initSessionHandler() (*authHTTP.SessionHandler, error) {
	gate, err := c.AccessGate()
	if err != nil {
		return nil, fmt.Errorf("failed to get access gate for session handler: %w", err)
	}

	return authHTTP.NewSessionHandler(gate, c.Logger()), nil
}
