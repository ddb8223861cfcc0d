package dto

import (
	"github.com/prateekro/trayme-guard/internal/classifier/domain"
)

// CategoryResponse describes one detected category.
type CategoryResponse struct {
	Category    string `json:"category"`
	DisplayName string `json:"display_name"`
	Severity    string `json:"severity"`
}

// ClassifyResponse is returned by POST /v1/classify.
type ClassifyResponse struct {
	Detected         bool               `json:"detected"`
	Primary          string             `json:"primary,omitempty"`
	HighestSeverity  string             `json:"highest_severity,omitempty"`
	Categories       []CategoryResponse `json:"categories"`
	ShouldBlur       bool               `json:"should_blur"`
	RuleTableVersion int                `json:"rule_table_version"`
}

// MaskResponse is returned by POST /v1/mask.
type MaskResponse struct {
	Masked  string `json:"masked"`
	Changed bool   `json:"changed"`
}

// MapClassification builds a ClassifyResponse from classifier results.
func MapClassification(
	primary domain.Category,
	all []domain.Category,
	highest domain.Severity,
	detected bool,
) ClassifyResponse {
	categories := make([]CategoryResponse, 0, len(all))
	for _, c := range all {
		categories = append(categories, CategoryResponse{
			Category:    string(c),
			DisplayName: c.DisplayName(),
			Severity:    c.Severity().String(),
		})
	}

	return ClassifyResponse{
		Detected:         detected,
		Primary:          string(primary),
		HighestSeverity:  highest.String(),
		Categories:       categories,
		ShouldBlur:       detected,
		RuleTableVersion: domain.RuleTableVersion,
	}
}
