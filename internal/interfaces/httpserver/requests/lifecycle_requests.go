package requests

// TrackUploadRequest registers a freshly uploaded asset in the upload ledger.
type TrackUploadRequest struct {
	AssetURL     string `json:"assetUrl" binding:"required"`
	ResourceType string `json:"resourceType" binding:"required"`
}

// MarkSavedRequest releases ledger rows for URLs now referenced by a saved
// record.
type MarkSavedRequest struct {
	AssetURLs []string `json:"assetUrls" binding:"required"`
}

// CleanupRequest triggers retention cleanup for the caller. An empty or
// omitted AssetURLs list means every tracked upload of the caller.
type CleanupRequest struct {
	AssetURLs []string `json:"assetUrls"`
}
