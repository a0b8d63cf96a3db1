package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
	"curator-server/services/media-lifecycle/utils/assetid"
)

// Service owns the upload ledger: the durable record of every asset uploaded
// before its owning record exists.
type Service struct {
	repo       Repository
	classifier *asset.Classifier
	ttl        time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates the ledger service.
func NewService(repo Repository, classifier *asset.Classifier, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		ttl:        ttl,
		log:        log.With().Str("component", "upload-ledger").Logger(),
		now:        time.Now,
	}
}

// Track inserts a ledger row for a freshly uploaded asset. It fails closed:
// a URL neither backend can identify is rejected with
// asset.ErrUnknownBackend rather than tracked silently, because an asset
// without a storage identifier can never be safely deleted later.
func (s *Service) Track(ctx context.Context, ownerID, rawURL string, kind asset.Kind) (*Entry, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	resolved, err := s.classifier.Classify(rawURL, kind)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &Entry{
		ID:                assetid.New(),
		OwnerID:           ownerID,
		AssetURL:          resolved.URL,
		StorageIdentifier: resolved.Identifier,
		ResourceType:      kind,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.ttl),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	metrics.RecordUploadTracked(string(kind))
	s.log.Debug().
		Str("owner_id", ownerID).
		Str("entry_id", entry.ID).
		Str("backend", string(resolved.Backend)).
		Msg("upload tracked")
	return entry, nil
}

// MarkSaved removes the owner's ledger rows for URLs now claimed by a saved
// record. Deleting zero rows is success: the call is idempotent and tolerant
// of retries.
func (s *Service) MarkSaved(ctx context.Context, ownerID string, urls []string) (int64, error) {
	if strings.TrimSpace(ownerID) == "" {
		return 0, fmt.Errorf("owner id is required")
	}

	cleaned := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		trimmed := strings.TrimSpace(u)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return 0, nil
	}

	deleted, err := s.repo.DeleteByOwnerAndURLs(ctx, ownerID, cleaned)
	if err != nil {
		return 0, err
	}

	s.log.Debug().
		Str("owner_id", ownerID).
		Int("urls", len(cleaned)).
		Int64("deleted", deleted).
		Msg("uploads marked saved")
	return deleted, nil
}

// ListForOwner returns the owner's pending entries.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]*Entry, error) {
	return s.repo.ListForOwner(ctx, ownerID)
}

// ListAll returns every pending entry across owners.
func (s *Service) ListAll(ctx context.Context) ([]*Entry, error) {
	return s.repo.ListAll(ctx)
}

// DeleteByIDs removes entries whose physical deletion has been confirmed.
func (s *Service) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteByIDs(ctx, ids)
}
