// Package usecase implements the self-destructing secret store: encrypted
// items that are disclosed only through the access gate and destroyed on
// schedule regardless of lock state.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	secretsDomain "github.com/prateekro/trayme-guard/internal/secrets/domain"
	"github.com/prateekro/trayme-guard/internal/scheduler"
)

// ItemRepository defines persistence operations for self-destructing items.
// Implementations must support transaction-aware operations via context propagation.
type ItemRepository interface {
	// Create stores a new item.
	Create(ctx context.Context, item *secretsDomain.SelfDestructingItem) error

	// Get retrieves an item by ID. Returns ErrItemNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*secretsDomain.SelfDestructingItem, error)

	// Delete removes an item. Deleting a missing item is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListExpired returns items due at or before now, without payloads.
	ListExpired(ctx context.Context, now time.Time) ([]*secretsDomain.SelfDestructingItem, error)

	// ListPending returns items due after now, without payloads.
	ListPending(ctx context.Context, now time.Time) ([]*secretsDomain.SelfDestructingItem, error)
}

// Gate is the part of the access gate the store depends on.
type Gate interface {
	Authenticate(ctx context.Context, reason string) (bool, error)
	AuthenticateForSensitiveContent(ctx context.Context) (bool, error)
	Session() authDomain.Session
	LockEpoch() uint64
}

// SecretStore stores encrypted items that destroy themselves.
type SecretStore interface {
	// Store encrypts plaintext, persists it and schedules its deletion at
	// now+ttl. The caller keeps ownership of plaintext.
	Store(ctx context.Context, plaintext []byte, kind string, ttl time.Duration) (uuid.UUID, error)

	// Retrieve authenticates through the gate and returns the decrypted payload.
	// A missing, expired or undisclosable item returns ErrItemUnavailable.
	// The caller must zero the returned slice with cryptoDomain.Zero.
	Retrieve(ctx context.Context, id uuid.UUID) ([]byte, error)

	// Delete removes the item and cancels its timer. It is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error

	// Restore purges expired rows and re-arms timers for pending rows. It
	// returns the number of timers armed.
	Restore(ctx context.Context) (int, error)

	// PurgeExpired deletes every expired row. With dryRun it only reports them.
	PurgeExpired(ctx context.Context, dryRun bool) (*secretsDomain.PurgeReport, error)

	// StartSweep runs PurgeExpired every interval until the job is cancelled.
	StartSweep(ctx context.Context, interval time.Duration) scheduler.Job

	// Close cancels every pending deletion timer. Rows are left for Restore.
	Close()
}
