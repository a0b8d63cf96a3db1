package record

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record exists for an id.
var ErrNotFound = errors.New("record not found")

// Record is the media surface of an owning record. Once a saved record's
// gallery references an asset, that asset is claimed.
type Record struct {
	ID        string
	OwnerID   string
	Gallery   []string
	Thumbnail *string
	// Keyed metadata maps: asset URL -> free text. Keys must track the
	// asset's current URL across relocation.
	Captions    map[string]string
	Summaries   map[string]string
	Transcripts map[string]string
}

// MediaUpdate is the partial write applied after relocation: the full media
// surface replaced in a single last-write-wins update.
type MediaUpdate struct {
	Gallery     []string
	Thumbnail   *string
	Captions    map[string]string
	Summaries   map[string]string
	Transcripts map[string]string
}

// MediaRef pairs a record id with its gallery, for the audit reverse index.
type MediaRef struct {
	RecordID string
	Gallery  []string
}

// Store is the narrow contract this subsystem consumes from the record store.
type Store interface {
	// Get fetches a record's media surface. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// UpdateMedia persists the record's media surface in a single write.
	UpdateMedia(ctx context.Context, id string, update MediaUpdate) error

	// ListAllMediaRefs scans every saved record's gallery.
	ListAllMediaRefs(ctx context.Context) ([]MediaRef, error)
}
