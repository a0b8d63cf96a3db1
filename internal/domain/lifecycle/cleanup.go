package lifecycle

import (
	"context"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
	"curator-server/services/media-lifecycle/internal/infrastructure/observability"
)

// CleanupResult reports a retention cleanup pass. Success means the pass ran,
// not that every deletion went through: failed entries stay in the ledger and
// are retried on the next pass.
type CleanupResult struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
	FailedCount  int  `json:"failedCount"`
}

// Cleaner deletes an owner's tracked pending uploads from storage and prunes
// the matching ledger rows. A ledger row is only removed after its object is
// confirmed gone, so a crash mid-pass can re-delete but never leak.
type Cleaner struct {
	entries    Ledger
	stores     backends
	classifier *asset.Classifier
	log        zerolog.Logger
}

// NewCleaner creates the retention cleanup engine.
func NewCleaner(entries Ledger, direct DirectStore, legacy ObjectStore, classifier *asset.Classifier, log zerolog.Logger) *Cleaner {
	return &Cleaner{
		entries:    entries,
		stores:     backends{direct: direct, legacy: legacy},
		classifier: classifier,
		log:        log.With().Str("component", "cleanup-engine").Logger(),
	}
}

// Cleanup deletes the owner's tracked uploads. With a non-empty urls list
// only entries whose asset URL is in the list are touched; with an empty list
// every tracked upload of the owner goes. Deletion is storage-first: entries
// whose object could not be deleted keep their ledger rows.
func (c *Cleaner) Cleanup(ctx context.Context, ownerID string, urls []string) (*CleanupResult, error) {
	ctx, span := observability.StartCleanupSpan(ctx, ownerID, len(urls) > 0)
	defer span.End()

	entries, err := c.entries.ListForOwner(ctx, ownerID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if len(urls) > 0 {
		wanted := make(map[string]struct{}, len(urls))
		for _, u := range urls {
			wanted[u] = struct{}{}
		}
		scoped := entries[:0]
		for _, e := range entries {
			if _, ok := wanted[e.AssetURL]; ok {
				scoped = append(scoped, e)
			}
		}
		entries = scoped
	}

	if len(entries) == 0 {
		return &CleanupResult{Success: true}, nil
	}

	var deletedIDs []string
	failed := 0
	for _, e := range entries {
		if err := c.deleteEntry(ctx, e); err != nil {
			failed++
			c.log.Error().Err(err).
				Str("entry_id", e.ID).
				Str("asset_url", e.AssetURL).
				Msg("pending upload deletion failed, entry kept for retry")
			continue
		}
		deletedIDs = append(deletedIDs, e.ID)
	}

	if len(deletedIDs) > 0 {
		if _, err := c.entries.DeleteByIDs(ctx, deletedIDs); err != nil {
			// Objects are gone but the rows remain; the next pass re-deletes
			// idempotently and prunes them then.
			observability.RecordError(span, err)
			return nil, err
		}
	}

	metrics.RecordCleanup(len(deletedIDs), failed)
	c.log.Info().
		Str("owner_id", ownerID).
		Int("deleted", len(deletedIDs)).
		Int("failed", failed).
		Msg("retention cleanup pass finished")

	return &CleanupResult{Success: true, DeletedCount: len(deletedIDs), FailedCount: failed}, nil
}

func (c *Cleaner) deleteEntry(ctx context.Context, e *ledger.Entry) error {
	a, err := c.classifier.Classify(e.AssetURL, e.ResourceType)
	if err != nil {
		return err
	}
	store, err := c.stores.forAsset(a)
	if err != nil {
		return err
	}
	return store.Delete(ctx, e.StorageIdentifier, e.ResourceType)
}
