package dto

import (
	"encoding/base64"

	"github.com/google/uuid"

	secretsDomain "github.com/prateekro/trayme-guard/internal/secrets/domain"
)

// StoreItemResponse is returned when an item is stored.
type StoreItemResponse struct {
	ID string `json:"id"`
}

// ItemResponse carries a disclosed payload, base64-encoded.
type ItemResponse struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// MapItemToResponse encodes plaintext. The caller still owns plaintext and
// must zero it.
func MapItemToResponse(id uuid.UUID, plaintext []byte) ItemResponse {
	return ItemResponse{
		ID:    id.String(),
		Value: base64.StdEncoding.EncodeToString(plaintext),
	}
}

// PurgeResponse reports the outcome of a purge.
type PurgeResponse struct {
	DryRun  bool     `json:"dry_run"`
	Expired []string `json:"expired"`
	Deleted int      `json:"deleted"`
}

// MapPurgeReportToResponse converts a purge report to an API response.
func MapPurgeReportToResponse(report *secretsDomain.PurgeReport) PurgeResponse {
	expired := make([]string, 0, len(report.Expired))
	for _, id := range report.Expired {
		expired = append(expired, id.String())
	}
	return PurgeResponse{
		DryRun:  report.DryRun,
		Expired: expired,
		Deleted: report.Deleted,
	}
}
