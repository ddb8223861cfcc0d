package repository

import (
	"context"
	"database/sql"
	"time"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/database"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

// SQLiteAccessLogRepository implements AccessLogRepository for SQLite.
// IDs are 16-byte blobs and timestamps are unix milliseconds.
type SQLiteAccessLogRepository struct {
	db *sql.DB
}

// NewSQLiteAccessLogRepository creates a new SQLite access-log repository.
func NewSQLiteAccessLogRepository(db *sql.DB) *SQLiteAccessLogRepository {
	return &SQLiteAccessLogRepository{db: db}
}

// Create appends an entry.
func (s *SQLiteAccessLogRepository) Create(ctx context.Context, entry *authDomain.AccessLog) error {
	querier := database.GetTx(ctx, s.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log id")
	}

	query := `INSERT INTO access_log (id, action, timestamp, success) VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, entry.Action, entry.Timestamp.UnixMilli(), entry.Success)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log entry")
	}
	return nil
}

// List returns entries newest first.
func (s *SQLiteAccessLogRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error) {
	querier := database.GetTx(ctx, s.db)

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
		var millis int64
		if err := rows.Scan(&idBinary, &entry.Action, &millis, &entry.Success); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
		}
		if err := entry.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal access log id")
		}
		entry.Timestamp = time.UnixMilli(millis).UTC()
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access log")
	}
	return entries, nil
}
