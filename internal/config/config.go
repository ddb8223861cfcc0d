// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the API server binds to. Loopback by default
	// because the API is meant for processes on the same device.
	ServerHost string
	// ServerPort is the port number the API server listens on.
	ServerPort int

	// DBDriver is the row store driver ("sqlite", "postgres" or "mysql").
	DBDriver string
	// DBConnectionString is the connection string for the row store.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// CryptoAlgorithm selects the AEAD used by the crypto box ("aes-gcm" or "chacha20-poly1305").
	CryptoAlgorithm string
	// KeyServiceID is the secure key store service the master key lives under.
	KeyServiceID string
	// KeyAccount is the secure key store account the master key lives under.
	KeyAccount string
	// KMSKeyURI wraps the master key at rest (e.g., "base64key://...", "awskms:///alias/...").
	// Empty stores the key unwrapped in the key store.
	KMSKeyURI string

	// AuthPasscodeHash is the go-pwdhash hash of the device-owner passcode.
	AuthPasscodeHash string
	// AuthAttemptsPerMinute is the sustained rate of authentication attempts allowed.
	AuthAttemptsPerMinute float64
	// AuthAttemptBurst is the number of back-to-back authentication attempts allowed.
	AuthAttemptBurst int

	// AutoLockMinutes is the inactivity threshold before the session locks (0 disables).
	AutoLockMinutes int
	// AutoLockCheckInterval is the cadence of the inactivity check.
	AutoLockCheckInterval time.Duration
	// RequireAuthForSensitive gates sensitive reads behind authentication.
	RequireAuthForSensitive bool

	// ItemSweepInterval is the cadence of the expired item sweep.
	ItemSweepInterval time.Duration

	// RateLimitEnabled indicates whether API rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for API rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "127.0.0.1"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", "sqlite"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", "file:trayme-guard.db?_pragma=foreign_keys(1)"),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 1),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 1),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME_MINUTES", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Crypto and key store
		CryptoAlgorithm: env.GetString("CRYPTO_ALGORITHM", "aes-gcm"),
		KeyServiceID:    env.GetString("KEY_SERVICE_ID", "trayme.guard"),
		KeyAccount:      env.GetString("KEY_ACCOUNT", "master-key"),
		KMSKeyURI:       env.GetString("KMS_KEY_URI", ""),

		// Authentication
		AuthPasscodeHash:      env.GetString("AUTH_PASSCODE_HASH", ""),
		AuthAttemptsPerMinute: env.GetFloat64("AUTH_ATTEMPTS_PER_MINUTE", 5.0),
		AuthAttemptBurst:      env.GetInt("AUTH_ATTEMPT_BURST", 5),

		// Access gate
		AutoLockMinutes:         env.GetInt("AUTO_LOCK_MINUTES", 5),
		AutoLockCheckInterval:   env.GetDuration("AUTO_LOCK_CHECK_INTERVAL_SECONDS", 30, time.Second),
		RequireAuthForSensitive: env.GetBool("REQUIRE_AUTH_FOR_SENSITIVE", true),

		// Self-destructing items
		ItemSweepInterval: env.GetDuration("ITEM_SWEEP_INTERVAL_SECONDS", 60, time.Second),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "trayme_guard"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
