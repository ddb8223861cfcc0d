// Package usecase implements the access gate: the security session state
// machine that decides when sensitive content may be disclosed.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	"github.com/prateekro/trayme-guard/internal/scheduler"
)

// AccessLogRepository persists the append-only access log.
type AccessLogRepository interface {
	// Create appends an entry.
	Create(ctx context.Context, entry *authDomain.AccessLog) error

	// List returns entries newest first.
	List(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error)
}

// AccessGate owns the security session. It is the only writer of session
// state; callers observe it through Session and Subscribe.
type AccessGate interface {
	// Lock locks the session for reason and bumps the lock epoch. It always
	// succeeds; recording the transition is best effort.
	Lock(ctx context.Context, reason authDomain.LockReason)

	// CheckInactivity locks the session if it has been idle for the configured
	// number of minutes. It reports whether a lock happened.
	CheckInactivity(ctx context.Context) bool

	// HandleSystemEvent locks the session for a sleep or screen-lock event.
	// Returns ErrUnknownSystemEvent for any other event.
	HandleSystemEvent(ctx context.Context, event authDomain.SystemEvent) error

	// Authenticate prompts the device owner. On success the session unlocks,
	// sensitive items open and the inactivity timer resets. A lock that happens
	// while the prompt is open voids the success.
	//
	// A declined prompt returns (false, nil). A throttled attempt returns
	// (false, ErrTooManyAttempts). Failing to record a successful attempt
	// returns (false, err) and leaves the session unchanged.
	Authenticate(ctx context.Context, reason string) (bool, error)

	// AuthenticateForSensitiveContent succeeds without prompting when
	// sensitive access is already open, and delegates to Authenticate otherwise.
	AuthenticateForSensitiveContent(ctx context.Context) (bool, error)

	// UpdateActivity refreshes the last activity time of an unlocked session.
	// It never unlocks.
	UpdateActivity()

	// Session returns a snapshot of the current session.
	Session() authDomain.Session

	// Subscribe registers fn to receive a snapshot after every state change.
	// The returned function removes the subscription.
	Subscribe(fn func(authDomain.Session)) (unsubscribe func())

	// SetAutoLockMinutes changes the inactivity threshold. Zero disables it.
	SetAutoLockMinutes(minutes int) error

	// SetRequireAuthForSensitive toggles re-authentication for sensitive content.
	SetRequireAuthForSensitive(require bool)

	// LockEpoch returns the number of locks since start.
	LockEpoch() uint64

	// LastAuthError returns the reason the most recent prompt failed.
	LastAuthError() string

	// ListAccessLog returns access-log entries newest first.
	ListAccessLog(ctx context.Context, offset, limit int) ([]*authDomain.AccessLog, error)

	// StartAutoLock runs CheckInactivity every interval until the job is cancelled.
	StartAutoLock(ctx context.Context, interval time.Duration) scheduler.Job
}
