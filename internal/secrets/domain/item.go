package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DefaultKind is used when an item is stored without a kind.
const DefaultKind = "text"

var kindPattern = regexp.MustCompile(`^[a-z][a-z0-9_\-]{0,63}$`)

// SelfDestructingItem is an encrypted payload that must be destroyed at
// AutoDeleteAt. Payload is nonce ‖ ciphertext ‖ tag.
type SelfDestructingItem struct {
	ID           uuid.UUID
	Payload      []byte
	Kind         string
	CreatedAt    time.Time
	AutoDeleteAt time.Time
}

// NewSelfDestructingItem validates kind and ttl and builds an item due at now+ttl.
func NewSelfDestructingItem(payload []byte, kind string, now time.Time, ttl time.Duration) (*SelfDestructingItem, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	if kind == "" {
		kind = DefaultKind
	}
	if !ValidKind(kind) {
		return nil, ErrInvalidKind
	}

	// Stores keep millisecond precision; the deadline is rounded up so a
	// reloaded item never expires before its original deadline.
	createdAt := now.UTC().Truncate(time.Millisecond)
	due := now.UTC().Add(ttl)
	if truncated := due.Truncate(time.Millisecond); !truncated.Equal(due) {
		due = truncated.Add(time.Millisecond)
	}

	return &SelfDestructingItem{
		ID:           uuid.Must(uuid.NewV7()),
		Payload:      payload,
		Kind:         kind,
		CreatedAt:    createdAt,
		AutoDeleteAt: due,
	}, nil
}

// ValidKind reports whether kind is a lowercase slug of at most 64 characters.
func ValidKind(kind string) bool {
	return kindPattern.MatchString(kind)
}

// Expired reports whether the item is due for destruction at now.
func (i *SelfDestructingItem) Expired(now time.Time) bool {
	return !now.Before(i.AutoDeleteAt)
}

// PurgeReport summarizes a sweep of expired items.
type PurgeReport struct {
	DryRun  bool
	Expired []uuid.UUID
	Deleted int
}
