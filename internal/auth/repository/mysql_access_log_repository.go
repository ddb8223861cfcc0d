package repository

import (
	"context"
	"database/sql"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/database"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// MySQLAccessLogRepository implements AccessLogRepository for MySQL.
// IDs are stored as BINARY(16).
type MySQLAccessLogRepository struct {
	db *sql.DB
}

// NewMySQLAccessLogRepository creates a new MySQL access-log repository.
func NewMySQLAccessLogRepository(db *sql.DB) *MySQLAccessLogRepository {
	return &MySQLAccessLogRepository{db: db}
}

// Create appends an entry.
func (m *MySQLAccessLogRepository) Create(ctx context.Context, entry *authDomain.AccessLog) error {
	querier := database.GetTx(ctx, m.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log id")
	}

	query := `INSERT INTO access_log (id, action, timestamp, success) VALUES (?, ?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, id, entry.Action, entry.Timestamp, entry.Success); err != nil {
		return apperrors.Wrap(err, "failed to create access log entry")
	}
	return nil
}

// List returns entries newest first.
func (m *MySQLAccessLogRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, action, timestamp, success
			  FROM access_log
			  ORDER BY timestamp DESC, id DESC
			  LIMIT ? OFFSET ?`

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
		var idBinary []byte
		if err := rows.Scan(&idBinary, &entry.Action, &entry.Timestamp, &entry.Success); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
		}
		if err := entry.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal access log id")
		}
		entry.Timestamp = entry.Timestamp.UTC()
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access log")
	}
	return entries, nil
}
