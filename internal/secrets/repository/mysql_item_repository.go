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

// MySQLItemRepository implements ItemRepository for MySQL. IDs are BINARY(16).
type MySQLItemRepository struct {
	db *sql.DB
}

// NewMySQLItemRepository creates a new MySQL item repository.
func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

// Create inserts a new item.
func (m *MySQLItemRepository) Create(ctx context.Context, item *secretsDomain.SelfDestructingItem) error {
	querier := database.GetTx(ctx, m.db)

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal item id")
	}

	query := `INSERT INTO sensitive_items (id, encrypted_payload, kind, created_at, auto_delete_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, item.Payload, item.Kind, item.CreatedAt, item.AutoDeleteAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create item")
	}
	return nil
}

// Get retrieves an item by ID.
func (m *MySQLItemRepository) Get(ctx context.Context, id uuid.UUID) (*secretsDomain.SelfDestructingItem, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal item id")
	}

	query := `SELECT encrypted_payload, kind, created_at, auto_delete_at
			  FROM sensitive_items WHERE id = ?`

	item := secretsDomain.SelfDestructingItem{ID: id}
	err = querier.QueryRowContext(ctx, query, idBinary).Scan(
		&item.Payload,
		&item.Kind,
		&item.CreatedAt,
		&item.AutoDeleteAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get item")
	}

	item.CreatedAt = item.CreatedAt.UTC()
	item.AutoDeleteAt = item.AutoDeleteAt.UTC()
	return &item, nil
}

// Delete removes an item by ID.
func (m *MySQLItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLItemRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	query := `SELECT id, kind, created_at, auto_delete_at
			  FROM sensitive_items
			  WHERE auto_delete_at <= ?
			  ORDER BY auto_delete_at ASC`
	return m.listMetadata(ctx, query, now.UTC())
}

// ListPending returns metadata of items due after now.
func (m *MySQLItemRepository) ListPending(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	query := `SELECT id, kind, created_at, auto_delete_at
			  FROM sensitive_items
			  WHERE auto_delete_at > ?
			  ORDER BY auto_delete_at ASC`
	return m.listMetadata(ctx, query, now.UTC())
}

func (m *MySQLItemRepository) listMetadata(
	ctx context.Context,
	query string,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, now)
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
		if err := rows.Scan(&idBinary, &item.Kind, &item.CreatedAt, &item.AutoDeleteAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan item")
		}
		if err := item.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal item id")
		}
		item.CreatedAt = item.CreatedAt.UTC()
		item.AutoDeleteAt = item.AutoDeleteAt.UTC()
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate items")
	}
	return items, nil
}
