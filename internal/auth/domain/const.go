// Package domain defines the security session, lock reasons, system events and
// access-log records that gate disclosure of sensitive content.
package domain

import (
	"strings"
)

// BiometryKind describes what proof the platform authenticator asks for.
type BiometryKind string

const (
	// BiometryNone means no biometric sensor; the platform may still accept a passcode.
	BiometryNone BiometryKind = "none"

	// BiometryFingerprint means a fingerprint reader.
	BiometryFingerprint BiometryKind = "fingerprint"

	// BiometryFace means face recognition.
	BiometryFace BiometryKind = "face"
)

// LockReason records why the session was locked.
type LockReason string

const (
	LockReasonManual       LockReason = "manual"
	LockReasonInactivity   LockReason = "inactivity"
	LockReasonSleep        LockReason = "sleep"
	LockReasonScreenLocked LockReason = "screen_locked"
)

// SystemEvent is an OS lifecycle notification that locks the session.
type SystemEvent string

const (
	// EventSleep is sent when the machine is about to sleep.
	EventSleep SystemEvent = "sleep"

	// EventScreenLocked is sent when the screen is locked.
	EventScreenLocked SystemEvent = "screen_locked"
)

// ParseSystemEvent validates an event name.
func ParseSystemEvent(name string) (SystemEvent, error) {
	switch SystemEvent(strings.ToLower(strings.TrimSpace(name))) {
	case EventSleep:
		return EventSleep, nil
	case EventScreenLocked:
		return EventScreenLocked, nil
	default:
		return "", ErrUnknownSystemEvent
	}
}

// LockReason maps the event to the reason recorded when it locks the session.
func (e SystemEvent) LockReason() LockReason {
	if e == EventSleep {
		return LockReasonSleep
	}
	return LockReasonScreenLocked
}

const (
	// ActionAuthenticate is the access-log action for authentication attempts.
	ActionAuthenticate = "authenticate"

	// actionLockPrefix prefixes the access-log action for lock transitions.
	actionLockPrefix = "lock:"
)

// LockAction returns the access-log action recorded for a lock with reason.
func LockAction(reason LockReason) string {
	return actionLockPrefix + string(reason)
}
