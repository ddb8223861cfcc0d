package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessLog is one append-only audit record of an authentication attempt or
// lock transition.
type AccessLog struct {
	ID        uuid.UUID
	Action    string
	Timestamp time.Time
	Success   bool
}

// NewAccessLog creates an access-log entry with a time-ordered ID.
func NewAccessLog(action string, success bool, at time.Time) *AccessLog {
	return &AccessLog{
		ID:        uuid.Must(uuid.NewV7()),
		Action:    action,
		Timestamp: at.UTC(),
		Success:   success,
	}
}
