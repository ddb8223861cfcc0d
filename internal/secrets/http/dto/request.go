// Package dto provides data transfer objects for the item HTTP API.
package dto

import (
	"encoding/base64"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/prateekro/trayme-guard/internal/validation"
)

// MaxTTLSeconds bounds how long an item may live.
const MaxTTLSeconds = 30 * 24 * 60 * 60

// StoreItemRequest contains a base64-encoded payload and its lifetime.
type StoreItemRequest struct {
	Value      string `json:"value"`
	Kind       string `json:"kind"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// Validate checks if the store item request is valid.
func (r *StoreItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Required,
			customValidation.Base64,
		),
		validation.Field(&r.Kind,
			customValidation.ItemKind,
		),
		validation.Field(&r.TTLSeconds,
			validation.Required,
			validation.Min(1),
			validation.Max(MaxTTLSeconds),
		),
	)
}

// Payload decodes Value. The caller must zero the result.
func (r *StoreItemRequest) Payload() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Value)
}

// TTL returns the lifetime as a duration.
func (r *StoreItemRequest) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}
