// Package repository persists self-destructing items in PostgreSQL, MySQL or SQLite.
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

// PostgreSQLItemRepository implements ItemRepository for PostgreSQL.
type PostgreSQLItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLItemRepository creates a new PostgreSQL item repository.
func NewPostgreSQLItemRepository(db *sql.DB) *PostgreSQLItemRepository {
	return &PostgreSQLItemRepository{db: db}
}

// Create inserts a new item.
func (p *PostgreSQLItemRepository) Create(ctx context.Context, item *secretsDomain.SelfDestructingItem) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sensitive_items (id, encrypted_payload, kind, created_at, auto_delete_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(ctx, query, item.ID, item.Payload, item.Kind, item.CreatedAt, item.AutoDeleteAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create item")
	}
	return nil
}

// Get retrieves an item by ID.
func (p *PostgreSQLItemRepository) Get(ctx context.Context, id uuid.UUID) (*secretsDomain.SelfDestructingItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, encrypted_payload, kind, created_at, auto_delete_at
			  FROM sensitive_items WHERE id = $1`

	var item secretsDomain.SelfDestructingItem
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
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
func (p *PostgreSQLItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM sensitive_items WHERE id = $1`, id); err != nil {
		return apperrors.Wrap(err, "failed to delete item")
	}
	return nil
}

// ListExpired returns metadata of items due at or before now.
func (p *PostgreSQLItemRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	query := `SELECT id, kind, created_at, auto_delete_at
			  FROM sensitive_items
			  WHERE auto_delete_at <= $1
			  ORDER BY auto_delete_at ASC`
	return p.listMetadata(ctx, query, now.UTC())
}

// ListPending returns metadata of items due after now.
func (p *PostgreSQLItemRepository) ListPending(
	ctx context.Context,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	query := `SELECT id, kind, created_at, auto_delete_at
			  FROM sensitive_items
			  WHERE auto_delete_at > $1
			  ORDER BY auto_delete_at ASC`
	return p.listMetadata(ctx, query, now.UTC())
}

func (p *PostgreSQLItemRepository) listMetadata(
	ctx context.Context,
	query string,
	now time.Time,
) ([]*secretsDomain.SelfDestructingItem, error) {
	querier := database.GetTx(ctx, p.db)

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
		if err := rows.Scan(&item.ID, &item.Kind, &item.CreatedAt, &item.AutoDeleteAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan item")
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
