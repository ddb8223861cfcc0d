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

// MySQLKeyStore implements KeyStore for MySQL (BLOB values).
type MySQLKeyStore struct {
	db *sql.DB
}

// NewMySQLKeyStore creates a new MySQL key store.
func NewMySQLKeyStore(db *sql.DB) *MySQLKeyStore {
	return &MySQLKeyStore{db: db}
}

// Get returns the value for (service, account) or ErrKeyNotFound.
func (m *MySQLKeyStore) Get(ctx context.Context, service, account string) ([]byte, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT value FROM secure_keys WHERE service = ? AND account = ?`

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
func (m *MySQLKeyStore) Put(ctx context.Context, service, account string, value []byte) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secure_keys (service, account, value, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query, service, account, value, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to put secure key")
	}
	return nil
}

// Delete removes the value for (service, account). Missing rows are not an error.
func (m *MySQLKeyStore) Delete(ctx context.Context, service, account string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secure_keys WHERE service = ? AND account = ?`

	if _, err := querier.ExecContext(ctx, query, service, account); err != nil {
		return apperrors.Wrap(err, "failed to delete secure key")
	}
	return nil
}
