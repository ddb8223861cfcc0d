// Package dto provides data transfer objects for the session HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	customValidation "github.com/prateekro/trayme-guard/internal/validation"
)

// DefaultUnlockReason is shown by the platform prompt when the caller gives none.
const DefaultUnlockReason = "Unlock TrayMe"

// UnlockRequest contains the optional prompt text for an unlock.
type UnlockRequest struct {
	Reason string `json:"reason"`
}

// Validate checks if the unlock request is valid.
func (r *UnlockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason,
			validation.Length(0, 255),
			customValidation.UTF8,
		),
	)
}

// PromptReason returns the reason to show, falling back to DefaultUnlockReason.
func (r *UnlockRequest) PromptReason() string {
	if r.Reason == "" {
		return DefaultUnlockReason
	}
	return r.Reason
}

// SystemEventRequest reports an OS lifecycle event.
type SystemEventRequest struct {
	Event string `json:"event"`
}

// Validate checks if the event is one the gate understands.
func (r *SystemEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Event,
			validation.Required,
			validation.In(string(authDomain.EventSleep), string(authDomain.EventScreenLocked)),
		),
	)
}

// SettingsRequest changes session settings. Omitted fields are left unchanged.
type SettingsRequest struct {
	AutoLockMinutes         *int  `json:"auto_lock_minutes"`
	RequireAuthForSensitive *bool `json:"require_auth_for_sensitive"`
}

// Validate checks if the settings request is valid.
func (r *SettingsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AutoLockMinutes, validation.Min(0), validation.Max(24*60)),
		validation.Field(&r.RequireAuthForSensitive,
			validation.When(r.AutoLockMinutes == nil, validation.NotNil.Error("at least one setting is required")),
		),
	)
}
