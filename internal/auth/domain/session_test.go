package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSession(now, 5, true)

	assert.True(t, s.IsUnlocked)
	assert.True(t, s.SensitiveItemsLocked)
	assert.Equal(t, StateUnlocked, s.State())
	assert.Equal(t, now, s.LastActivityTime)
	assert.Equal(t, uint64(0), s.LockEpoch)
	assert.False(t, s.SensitiveAccessOpen())
}

func TestSession_AutoLockDue(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		session  Session
		expected bool
	}{
		{"idle past threshold", Session{IsUnlocked: true, AutoLockMinutes: 5, LastActivityTime: now.Add(-6 * time.Minute)}, true},
		{"idle exactly threshold", Session{IsUnlocked: true, AutoLockMinutes: 5, LastActivityTime: now.Add(-5 * time.Minute)}, true},
		{"recently active", Session{IsUnlocked: true, AutoLockMinutes: 5, LastActivityTime: now.Add(-4 * time.Minute)}, false},
		{"disabled", Session{IsUnlocked: true, AutoLockMinutes: 0, LastActivityTime: now.Add(-time.Hour)}, false},
		{"already locked", Session{IsUnlocked: false, AutoLockMinutes: 5, LastActivityTime: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.session.AutoLockDue(now))
		})
	}
}

func TestSession_SensitiveAccessOpen(t *testing.T) {
	assert.True(t, Session{RequireAuthForSensitive: false}.SensitiveAccessOpen())
	assert.True(t, Session{RequireAuthForSensitive: true, IsUnlocked: true}.SensitiveAccessOpen())
	assert.False(t, Session{RequireAuthForSensitive: true, IsUnlocked: true, SensitiveItemsLocked: true}.SensitiveAccessOpen())
	assert.False(t, Session{RequireAuthForSensitive: true, IsUnlocked: false}.SensitiveAccessOpen())
	assert.Equal(t, StateLocked, Session{}.State())
}

func TestParseSystemEvent(t *testing.T) {
	event, err := ParseSystemEvent("sleep")
	require.NoError(t, err)
	assert.Equal(t, EventSleep, event)
	assert.Equal(t, LockReasonSleep, event.LockReason())

	event, err = ParseSystemEvent(" Screen_Locked ")
	require.NoError(t, err)
	assert.Equal(t, EventScreenLocked, event)
	assert.Equal(t, LockReasonScreenLocked, event.LockReason())

	_, err = ParseSystemEvent("shutdown")
	assert.ErrorIs(t, err, ErrUnknownSystemEvent)
}

func TestAccessLog(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	entry := NewAccessLog(LockAction(LockReasonInactivity), true, at)

	assert.Equal(t, "lock:inactivity", entry.Action)
	assert.True(t, entry.Success)
	assert.Equal(t, time.UTC, entry.Timestamp.Location())
	assert.Equal(t, uuid.Version(7), entry.ID.Version())
}
