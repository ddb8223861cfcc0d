// Package domain defines self-destructing items and their errors.
package domain

import (
	"github.com/prateekro/trayme-guard/internal/errors"
)

// Item errors.
var (
	// ErrItemUnavailable covers an absent, expired or undisclosable item. Callers
	// cannot tell these cases apart.
	ErrItemUnavailable = errors.Wrap(errors.ErrNotFound, "item unavailable")

	// ErrItemNotFound is returned by repositories when no row has the ID.
	ErrItemNotFound = errors.Wrap(errors.ErrNotFound, "item not found")

	// ErrInvalidTTL indicates a non-positive time to live.
	ErrInvalidTTL = errors.Wrap(errors.ErrInvalidInput, "ttl must be positive")

	// ErrInvalidKind indicates a kind that is not a lowercase slug.
	ErrInvalidKind = errors.Wrap(errors.ErrInvalidInput, "invalid item kind")
)
