// Package repository implements the secure key store over the row store.
//
// Each dialect keeps one row per (service, account) slot in the secure_keys
// table. Writes are upserts, so replacing a key is a single statement. All
// repositories honor a transaction carried in the context via database.GetTx.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
	"github.com/prateekro/trayme-guard/internal/database"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// PostgreSQLKeyStore implements KeyStore for PostgreSQL (BYTEA values).
type PostgreSQLKeyStore struct {
	db *sql.DB
}

// NewPostgreSQLKeyStore creates a new PostgreSQL key store.
func NewPostgreSQLKeyStore(db *sql.DB) *PostgreSQLKeyStore {
	return &PostgreSQLKeyStore{db: db}
}

// Get returns the value for (service, account) or ErrKeyNotFound.
func (p *PostgreSQLKeyStore) Get(ctx context.Context, service, account string) ([]byte, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT value FROM secure_keys WHERE service = $1 AND account = $2`

	var value []byte
	err := querier.QueryRowContext(ctx, query, service, account).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cryptoDomain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secure key")
	}
	return value, nil
}

// Put upserts the value for (service, account).
func (p *PostgreSQLKeyStore) Put(ctx context.Context, service, account string, value []byte) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secure_keys (service, account, value, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (service, account)
			  DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query, service, account, value, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to put secure key")
	}
	return nil
}

// Delete removes the value for (service, account). Missing rows are not an error.
func (p *PostgreSQLKeyStore) Delete(ctx context.Context, service, account string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secure_keys WHERE service = $1 AND account = $2`

	if _, err := querier.ExecContext(ctx, query, service, account); err != nil {
		return apperrors.Wrap(err, "failed to delete secure key")
	}
	return nil
}
