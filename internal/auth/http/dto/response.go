package dto

import (
	"time"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

// SessionResponse represents the security session in API responses.
type SessionResponse struct {
	State                   string     `json:"state"`
	IsUnlocked              bool       `json:"is_unlocked"`
	SensitiveItemsLocked    bool       `json:"sensitive_items_locked"`
	LastActivityTime        time.Time  `json:"last_activity_time"`
	AutoLockMinutes         int        `json:"auto_lock_minutes"`
	RequireAuthForSensitive bool       `json:"require_auth_for_sensitive"`
	LockEpoch               uint64     `json:"lock_epoch"`
	LastLockReason          string     `json:"last_lock_reason,omitempty"`
	LastLockedAt            *time.Time `json:"last_locked_at,omitempty"`
}

// MapSessionToResponse converts a session snapshot to an API response.
func MapSessionToResponse(session authDomain.Session) SessionResponse {
	resp := SessionResponse{
		State:                   string(session.State()),
		IsUnlocked:              session.IsUnlocked,
		SensitiveItemsLocked:    session.SensitiveItemsLocked,
		LastActivityTime:        session.LastActivityTime,
		AutoLockMinutes:         session.AutoLockMinutes,
		RequireAuthForSensitive: session.RequireAuthForSensitive,
		LockEpoch:               session.LockEpoch,
		LastLockReason:          string(session.LastLockReason),
	}
	if !session.LastLockedAt.IsZero() {
		lockedAt := session.LastLockedAt
		resp.LastLockedAt = &lockedAt
	}
	return resp
}

// AccessLogResponse represents an access-log entry in API responses.
type AccessLogResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// ListAccessLogResponse represents a page of the access log.
type ListAccessLogResponse struct {
	Data []AccessLogResponse `json:"data"`
}

// MapAccessLogToListResponse converts access-log entries to a list API response.
func MapAccessLogToListResponse(entries []*authDomain.AccessLog) ListAccessLogResponse {
	data := make([]AccessLogResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, AccessLogResponse{
			ID:        entry.ID.String(),
			Action:    entry.Action,
			Timestamp: entry.Timestamp,
			Success:   entry.Success,
		})
	}
	return ListAccessLogResponse{Data: data}
}
