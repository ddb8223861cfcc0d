package domain

import (
	"time"
)

// State is the coarse lock state of a Session.
type State string

const (
	StateUnlocked State = "unlocked"
	StateLocked   State = "locked"
)

// Session is a snapshot of the process-wide security session. Only the
// access gate mutates the live session; callers receive copies.
type Session struct {
	IsUnlocked              bool
	SensitiveItemsLocked    bool
	LastActivityTime        time.Time
	AutoLockMinutes         int
	RequireAuthForSensitive bool

	// LockEpoch increases every time the session is locked.
	LockEpoch uint64

	LastLockReason LockReason
	LastLockedAt   time.Time
}

// NewSession returns the session a subsystem starts with: unlocked, with
// sensitive items still requiring authentication.
func NewSession(now time.Time, autoLockMinutes int, requireAuthForSensitive bool) Session {
	return Session{
		IsUnlocked:              true,
		SensitiveItemsLocked:    true,
		LastActivityTime:        now,
		AutoLockMinutes:         autoLockMinutes,
		RequireAuthForSensitive: requireAuthForSensitive,
	}
}

// State returns StateUnlocked or StateLocked.
func (s Session) State() State {
	if s.IsUnlocked {
		return StateUnlocked
	}
	return StateLocked
}

// AutoLockDue reports whether an unlocked session has been idle for at least
// AutoLockMinutes. A zero threshold disables auto-lock.
func (s Session) AutoLockDue(now time.Time) bool {
	if !s.IsUnlocked || s.AutoLockMinutes <= 0 {
		return false
	}
	return now.Sub(s.LastActivityTime) >= time.Duration(s.AutoLockMinutes)*time.Minute
}

// SensitiveAccessOpen reports whether sensitive content may be disclosed
// without a new authentication.
func (s Session) SensitiveAccessOpen() bool {
	if !s.RequireAuthForSensitive {
		return true
	}
	return s.IsUnlocked && !s.SensitiveItemsLocked
}
