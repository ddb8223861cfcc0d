package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/prateekro/trayme-guard/internal/database"
)

// RunMigrations applies every pending migration from sourceURL to db. It
// returns nil when the schema is already current. The migrate instance is not
// closed because that would close db, which the caller owns.
func RunMigrations(logger *slog.Logger, db *sql.DB, driver, sourceURL string) error {
	logger.Info("running database migrations",
		slog.String("driver", driver),
		slog.String("source", sourceURL),
	)

	instance, err := migrationDriver(db, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, driver, instance)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

func migrationDriver(db *sql.DB, driver string) (migratedb.Driver, error) {
	switch driver {
	case database.DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case database.DriverMySQL:
		return mysql.WithInstance(db, &mysql.Config{})
	case database.DriverSQLite:
		return sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
