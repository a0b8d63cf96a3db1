package lifecycle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
	"curator-server/services/media-lifecycle/internal/infrastructure/observability"
)

// ReorganizeResult reports a relocation pass. Partial success — some assets
// moved, some failed — is still Success: callers must not treat a non-empty
// Errors list as a hard failure.
type ReorganizeResult struct {
	Success    bool     `json:"success"`
	MovedCount int      `json:"movedCount"`
	Errors     []string `json:"errors,omitempty"`
}

// Relocator moves a record's assets from their transient upload paths into
// permanent per-record storage and rewrites every cross-reference to the old
// URLs.
type Relocator struct {
	records    record.Store
	direct     DirectStore
	classifier *asset.Classifier
	refresher  Refresher
	log        zerolog.Logger
}

// NewRelocator creates the relocation engine.
func NewRelocator(records record.Store, direct DirectStore, classifier *asset.Classifier, refresher Refresher, log zerolog.Logger) *Relocator {
	return &Relocator{
		records:    records,
		direct:     direct,
		classifier: classifier,
		refresher:  refresher,
		log:        log.With().Str("component", "relocation-engine").Logger(),
	}
}

// Reorganize relocates every transient direct-object asset of the record into
// {owner}/{record}/ and repoints the gallery, the thumbnail, and the three
// keyed metadata maps. Legacy CDN assets pass through untouched: that backend
// organizes assets logically through its public-id scheme. Assets whose move
// fails keep their original URL; an asset is never dropped because its
// relocation failed.
func (r *Relocator) Reorganize(ctx context.Context, principal, recordID string) (*ReorganizeResult, error) {
	rec, err := r.records.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != principal {
		return nil, ErrNotRecordOwner
	}

	ctx, span := observability.StartRelocationSpan(ctx, recordID, rec.OwnerID, len(rec.Gallery))
	defer span.End()

	if len(rec.Gallery) == 0 {
		return &ReorganizeResult{Success: true}, nil
	}

	destDir := fmt.Sprintf("%s/%s", rec.OwnerID, recordID)
	mapping := make(map[string]string)
	newGallery := make([]string, 0, len(rec.Gallery))
	var moveErrors []string
	moved := 0

	for _, rawURL := range rec.Gallery {
		a, err := r.classifier.Classify(rawURL, asset.KindRaw)
		if err != nil || !a.IsDirect() || !a.InTransientPath() {
			// Legacy CDN assets, already-permanent objects, and anything
			// unrecognized stay where they are.
			newGallery = append(newGallery, rawURL)
			continue
		}

		newURL, err := r.direct.Move(ctx, a.Identifier, destDir)
		if err != nil {
			moveErrors = append(moveErrors, fmt.Sprintf("failed to move %s: %v", rawURL, err))
			r.log.Error().Err(err).Str("asset_url", rawURL).Str("record_id", recordID).Msg("asset relocation failed")
			newGallery = append(newGallery, rawURL)
			continue
		}
		if newURL == rawURL {
			// Already at its destination; a repeated call is a no-op.
			newGallery = append(newGallery, rawURL)
			continue
		}

		mapping[rawURL] = newURL
		newGallery = append(newGallery, newURL)
		moved++
	}

	metrics.RecordRelocation(moved, len(moveErrors))

	if moved == 0 {
		return &ReorganizeResult{Success: true, MovedCount: 0, Errors: moveErrors}, nil
	}

	update := record.MediaUpdate{
		Gallery:     newGallery,
		Thumbnail:   rec.Thumbnail,
		Captions:    rekey(rec.Captions, mapping),
		Summaries:   rekey(rec.Summaries, mapping),
		Transcripts: rekey(rec.Transcripts, mapping),
	}
	if rec.Thumbnail != nil {
		if newURL, ok := mapping[*rec.Thumbnail]; ok {
			update.Thumbnail = &newURL
		}
	}

	if err := r.records.UpdateMedia(ctx, recordID, update); err != nil {
		// Assets are already physically moved. Log the full relocation
		// mapping so an operator can repoint the record by hand; a retried
		// Reorganize is also safe because Move no-ops on moved assets.
		event := r.log.Error().Err(err).Str("record_id", recordID)
		for oldURL, newURL := range mapping {
			event = event.Str(oldURL, newURL)
		}
		event.Msg("record update failed after assets were relocated")
		observability.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", ErrRecordUpdateFailed, err)
	}

	// Cosmetic, non-authoritative data: refresh the user's media library
	// entries for the moved assets without blocking on the outcome.
	for _, oldURL := range rec.Gallery {
		if newURL, ok := mapping[oldURL]; ok {
			r.refresher.EnqueueRewrite(rec.OwnerID, oldURL, newURL, destDir)
		}
	}

	r.log.Info().
		Str("record_id", recordID).
		Int("moved", moved).
		Int("failed", len(moveErrors)).
		Msg("record media reorganized")

	return &ReorganizeResult{Success: true, MovedCount: moved, Errors: moveErrors}, nil
}

// rekey rewrites every key of a metadata map through the relocation mapping.
// Unmapped keys pass through unchanged, including keys that no longer match
// any current asset — metadata is advisory and is never dropped here.
func rekey(m map[string]string, mapping map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for key, value := range m {
		if newKey, ok := mapping[key]; ok {
			out[newKey] = value
			continue
		}
		out[key] = value
	}
	return out
}
