// Package repository persists the access log in PostgreSQL, MySQL or SQLite.
// Every repository resolves its querier with database.GetTx so writes join an
// ambient transaction when one is present.
package repository

import (
	"context"
	"database/sql"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/database"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// PostgreSQLAccessLogRepository implements AccessLogRepository for PostgreSQL.
type PostgreSQLAccessLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccessLogRepository creates a new PostgreSQL access-log repository.
func NewPostgreSQLAccessLogRepository(db *sql.DB) *PostgreSQLAccessLogRepository {
	return &PostgreSQLAccessLogRepository{db: db}
}

// Create appends an entry.
func (p *PostgreSQLAccessLogRepository) Create(ctx context.Context, entry *authDomain.AccessLog) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_log (id, action, timestamp, success) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, entry.ID, entry.Action, entry.Timestamp, entry.Success)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log entry")
	}
	return nil
}

// List returns entries newest first.
func (p *PostgreSQLAccessLogRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, action, timestamp, success
			  FROM access_log
			  ORDER BY timestamp DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*authDomain.AccessLog, 0)
	for rows.Next() {
		var entry authDomain.AccessLog
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Timestamp, &entry.Success); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
		}
		entry.Timestamp = entry.Timestamp.UTC()
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access log")
	}
	return entries, nil
}
