package responses

import (
	"time"

	"curator-server/services/media-lifecycle/internal/domain/ledger"
)

// TrackUploadResponse confirms a ledger entry was created.
type TrackUploadResponse struct {
	ID           string    `json:"id"`
	AssetURL     string    `json:"assetUrl"`
	ResourceType string    `json:"resourceType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// BuildTrackUploadResponse creates the response from a ledger entry.
func BuildTrackUploadResponse(entry *ledger.Entry) *TrackUploadResponse {
	return &TrackUploadResponse{
		ID:           entry.ID,
		AssetURL:     entry.AssetURL,
		ResourceType: string(entry.ResourceType),
		ExpiresAt:    entry.ExpiresAt,
	}
}

// MarkSavedResponse reports how many ledger rows the call released.
type MarkSavedResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

// DirectUploadResponse describes a stored transient upload.
type DirectUploadResponse struct {
	AssetURL     string    `json:"assetUrl"`
	ResourceType string    `json:"resourceType"`
	Bytes        int64     `json:"bytes"`
	Mime         string    `json:"mime"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
