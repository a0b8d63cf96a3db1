package lifecycle

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
	"curator-server/services/media-lifecycle/internal/infrastructure/observability"
)

// AuditEntry is one ledger entry placed in an audit bucket.
type AuditEntry struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"ownerId"`
	AssetURL       string     `json:"assetUrl"`
	ResourceType   asset.Kind `json:"resourceType"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	FoundInRecords []string   `json:"foundInRecords,omitempty"`
}

// AuditSummary counts the whole ledger and the three buckets. The buckets are
// disjoint; Total and Expired count the full ledger, classified or not.
type AuditSummary struct {
	Total          int `json:"total"`
	Expired        int `json:"expired"`
	Dangerous      int `json:"dangerous"`
	AlreadyDeleted int `json:"alreadyDeleted"`
	SafeToDelete   int `json:"safeToDelete"`
}

// AuditReport is the full reconciliation output. It is read-only: producing
// it never deletes an object or a ledger row.
type AuditReport struct {
	GeneratedAt    time.Time    `json:"generatedAt"`
	Summary        AuditSummary `json:"summary"`
	Dangerous      []AuditEntry `json:"dangerous"`
	AlreadyDeleted []AuditEntry `json:"alreadyDeleted"`
	SafeToDelete   []AuditEntry `json:"safeToDelete"`
}

// Reconciler cross-checks the upload ledger against the record corpus and the
// storage backends.
type Reconciler struct {
	entries    Ledger
	records    record.Store
	stores     backends
	classifier *asset.Classifier
	log        zerolog.Logger
	now        func() time.Time
}

// NewReconciler creates the audit engine.
func NewReconciler(entries Ledger, records record.Store, direct DirectStore, legacy ObjectStore, classifier *asset.Classifier, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		entries:    entries,
		records:    records,
		stores:     backends{direct: direct, legacy: legacy},
		classifier: classifier,
		log:        log.With().Str("component", "audit-engine").Logger(),
		now:        time.Now,
	}
}

// Audit classifies every ledger entry. Precedence per entry: referenced by a
// record wins (dangerous), then a missing object (already deleted), then an
// expired unreferenced present object (safe to delete). A live, unexpired,
// unreferenced entry lands in no bucket. Entries whose existence probe fails
// are logged and left unclassified rather than guessed at.
func (r *Reconciler) Audit(ctx context.Context) (*AuditReport, error) {
	ctx, span := observability.StartAuditSpan(ctx)
	defer span.End()

	entries, err := r.entries.ListAll(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	refs, err := r.records.ListAllMediaRefs(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	usedIn := make(map[string][]string)
	for _, ref := range refs {
		for _, u := range ref.Gallery {
			usedIn[u] = append(usedIn[u], ref.RecordID)
		}
	}

	now := r.now()
	report := &AuditReport{
		GeneratedAt: now,
		Summary:     AuditSummary{Total: len(entries)},
	}

	for _, e := range entries {
		expired := e.Expired(now)
		if expired {
			report.Summary.Expired++
		}

		if records := usedIn[e.AssetURL]; len(records) > 0 {
			report.Dangerous = append(report.Dangerous, auditEntry(e, records))
			continue
		}

		exists, err := r.probe(ctx, e)
		if err != nil {
			r.log.Warn().Err(err).
				Str("entry_id", e.ID).
				Str("asset_url", e.AssetURL).
				Msg("existence probe failed, entry left unclassified")
			continue
		}
		if !exists {
			report.AlreadyDeleted = append(report.AlreadyDeleted, auditEntry(e, nil))
			continue
		}
		if expired {
			report.SafeToDelete = append(report.SafeToDelete, auditEntry(e, nil))
		}
	}

	report.Summary.Dangerous = len(report.Dangerous)
	report.Summary.AlreadyDeleted = len(report.AlreadyDeleted)
	report.Summary.SafeToDelete = len(report.SafeToDelete)
	metrics.RecordAuditBuckets(report.Summary.Dangerous, report.Summary.AlreadyDeleted, report.Summary.SafeToDelete)

	r.log.Info().
		Int("total", report.Summary.Total).
		Int("dangerous", report.Summary.Dangerous).
		Int("already_deleted", report.Summary.AlreadyDeleted).
		Int("safe_to_delete", report.Summary.SafeToDelete).
		Msg("ledger audit finished")

	return report, nil
}

func (r *Reconciler) probe(ctx context.Context, e *ledger.Entry) (bool, error) {
	a, err := r.classifier.Classify(e.AssetURL, e.ResourceType)
	if err != nil {
		return false, err
	}
	store, err := r.stores.forAsset(a)
	if err != nil {
		return false, err
	}
	return store.Exists(ctx, e.StorageIdentifier, e.ResourceType)
}

func auditEntry(e *ledger.Entry, foundIn []string) AuditEntry {
	return AuditEntry{
		ID:             e.ID,
		OwnerID:        e.OwnerID,
		AssetURL:       e.AssetURL,
		ResourceType:   e.ResourceType,
		CreatedAt:      e.CreatedAt,
		ExpiresAt:      e.ExpiresAt,
		FoundInRecords: foundIn,
	}
}
