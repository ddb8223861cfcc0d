// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/prateekro/trayme-guard/internal/validation"
)

// MaxTextLength bounds the text accepted by the classify and mask endpoints.
const MaxTextLength = 1 << 20

// TextRequest carries the text to classify or mask.
type TextRequest struct {
	Text string `json:"text"`
}

// Validate checks if the text request is valid.
func (r *TextRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text,
			validation.Required,
			validation.Length(1, MaxTextLength),
			customValidation.UTF8,
		),
	)
}
