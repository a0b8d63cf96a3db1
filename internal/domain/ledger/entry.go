package ledger

import (
	"time"

	"curator-server/services/media-lifecycle/internal/domain/asset"
)

// Entry is one upload ledger row: an asset uploaded before its owning record
// was confirmed. Entries are immutable until deleted — they leave the ledger
// when the owning record is saved or when cleanup confirms physical deletion.
type Entry struct {
	ID                string
	OwnerID           string
	AssetURL          string
	StorageIdentifier string
	ResourceType      asset.Kind
	CreatedAt         time.Time
	ExpiresAt         time.Time
}

// Expired reports whether the entry's retention window has passed.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt.Before(now)
}

// Asset rebuilds the tagged backend variant from the cached identifier.
func (e *Entry) Asset(backend asset.Backend) *asset.Asset {
	return &asset.Asset{
		URL:        e.AssetURL,
		Backend:    backend,
		Identifier: e.StorageIdentifier,
		Kind:       e.ResourceType,
	}
}
