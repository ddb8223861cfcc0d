package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prateekro/trayme-guard/internal/database"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
	secretsDomain "github.com/prateekro/trayme-guard/internal/secrets/domain"
)

// SQLiteItemRepository implements ItemRepository for SQLite. IDs are 16-byte
// blobs and timestamps are unix milliseconds.
type SQLiteItemRepository struct {
	db *sql.DB
}

// NewSQLiteItemRepository creates a new SQLite item repository.
func NewSQLiteItemRepository(db *sql.DB) *SQLiteItemRepository {
	return &SQLiteItemRepository{db: db}
}

// Create inserts a new item.
func (s *SQLiteItemRepository) Create(ctx context.Context, item *secretsDomain.SelfDestructingItem) error {
	querier := database.GetTx(ctx, s.db)

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal item id")
	}

	query := `INSERT INTO sensitive_items (id, encrypted_payload, kind, created_at, auto_delete_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		id,
		item.Payload,
		item.Kind,
		item.CreatedAt.UnixMilli(),
		item.AutoDeleteAt.UnixMilli(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create item")
	}
	return nil
}

// Get retrieves an item by ID.
func (s *SQLiteItemRepository) Get(ctx context.Context, id uuid.UUID) (*secretsDomain.SelfDestructingItem, error) {
	querier := database.GetTx(ctx, s.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal item id")
	}

	query := `SELECT encrypted_payload, kind, created_at, auto_delete_at
			  FROM sensitive_items WHERE id = ?`

	item := secretsDomain.SelfDestructingItem{ID: id}
	var createdAt, autoDeleteAt int64
	err = querier.QueryRowContext(ctx, query, idBinary).Scan(&item.Payload, &item.Kind, &createdAt, &autoDeleteAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get item")
	}

	item.CreatedAt = time.UnixMilli(createdAt).UTC()
	item.AutoDeleteAt = time.UnixMilli(autoDeleteAt).UTC()
	return &item, nil
}

// Delete removes an item by ID.
func (s *SQLiteItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, s.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal item id")
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM sensitive_items WHERE id = ?`, idBinary); err != nil {
		return apperrors.Wrap(err, "failed to delete item")
	}
	return nil
}

// ListExpired returns metadata of items due at or before now.
func (s *SQLiteItemRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	query := `SELECT id, kind, created_at, auto_delete_at
			  FROM sensitive_items
			  WHERE auto_delete_at <= ?
			  ORDER BY auto_delete_at ASC`
	return s.listMetadata(ctx, query, now)
}

// ListPending returns metadata of items due after now.
func (s *SQLiteItemRepository) ListPending(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	query := `SELECT id, kind, created_at, auto_delete_at
			  FROM sensitive_items
			  WHERE auto_delete_at > ?
			  ORDER BY auto_delete_at ASC`
	return s.listMetadata(ctx, query, now)
}

func (s *SQLiteItemRepository) listMetadata(
	ctx context.Context,
	query string,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	querier := database.GetTx(ctx, s.db)

	rows, err := querier.QueryContext(ctx, query, now.UnixMilli())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list items")
	}
	defer func() {
		_ = rows.Close()
	}()

	items := make([]*secretsDomain.SelfDestructingItem, 0)
	for rows.Next() {
		var item secretsDomain.SelfDestructingItem
		var idBinary []byte
		var createdAt, autoDeleteAt int64
		if err := rows.Scan(&idBinary, &item.Kind, &createdAt, &autoDeleteAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan item")
		}
		if err := item.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal item id")
		}
		item.CreatedAt = time.UnixMilli(createdAt).UTC()
		item.AutoDeleteAt = time.UnixMilli(autoDeleteAt).UTC()
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate items")
	}
	return items, nil
}
