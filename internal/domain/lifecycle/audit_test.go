package lifecycle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
	"curator-server/services/media-lifecycle/internal/domain/record"
)

func auditFixture() ([]*ledger.Entry, []record.MediaRef) {
	now := time.Now().UTC()
	entries := []*ledger.Entry{
		// Referenced by a record AND expired: dangerous wins.
		{
			ID: "e-dangerous", OwnerID: "user-1", AssetURL: transientA,
			StorageIdentifier: "user-1/temp/ast_01-a.jpg", ResourceType: asset.KindImage,
			ExpiresAt: now.Add(-time.Hour),
		},
		// Unreferenced and gone from storage.
		{
			ID: "e-gone", OwnerID: "user-1", AssetURL: transientB,
			StorageIdentifier: "user-1/temp/ast_02-b.mp4", ResourceType: asset.KindVideo,
			ExpiresAt: now.Add(-time.Hour),
		},
		// Unreferenced, expired, still present.
		{
			ID: "e-stale", OwnerID: "user-2", AssetURL: legacyD,
			StorageIdentifier: "folder/d", ResourceType: asset.KindImage,
			ExpiresAt: now.Add(-time.Hour),
		},
		// Unreferenced, present, still within the retention window.
		{
			ID: "e-fresh", OwnerID: "user-2", AssetURL: permanentC,
			StorageIdentifier: "user-1/rec-42/c.jpg", ResourceType: asset.KindImage,
			ExpiresAt: now.Add(time.Hour),
		},
	}
	refs := []record.MediaRef{
		{RecordID: "rec-42", Gallery: []string{transientA}},
	}
	return entries, refs
}

func newAuditor(entries []*ledger.Entry, refs []record.MediaRef, gone map[string]bool, probeErr map[string]error) *lifecycle.Reconciler {
	store := &MockLedger{
		ListAllFunc: func(ctx context.Context) ([]*ledger.Entry, error) {
			return entries, nil
		},
	}
	records := &MockRecordStore{
		ListAllMediaRefsFunc: func(ctx context.Context) ([]record.MediaRef, error) {
			return refs, nil
		},
	}
	exists := func(ctx context.Context, identifier string, kind asset.Kind) (bool, error) {
		if err := probeErr[identifier]; err != nil {
			return false, err
		}
		return !gone[identifier], nil
	}
	direct := &MockDirectStore{MockObjectStore: MockObjectStore{ExistsFunc: exists}}
	legacy := &MockObjectStore{ExistsFunc: exists}
	return lifecycle.NewReconciler(store, records, direct, legacy, testClassifier(), zerolog.Nop())
}

func TestReconciler_Audit(t *testing.T) {
	entries, refs := auditFixture()
	gone := map[string]bool{"user-1/temp/ast_02-b.mp4": true}

	report, err := newAuditor(entries, refs, gone, nil).Audit(context.Background())
	if err != nil {
		t.Fatalf("Audit returned error: %v", err)
	}

	if report.Summary.Total != 4 || report.Summary.Expired != 3 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if len(report.Dangerous) != 1 || report.Dangerous[0].ID != "e-dangerous" {
		t.Fatalf("dangerous = %+v", report.Dangerous)
	}
	if got := report.Dangerous[0].FoundInRecords; len(got) != 1 || got[0] != "rec-42" {
		t.Errorf("FoundInRecords = %v", got)
	}
	if len(report.AlreadyDeleted) != 1 || report.AlreadyDeleted[0].ID != "e-gone" {
		t.Errorf("alreadyDeleted = %+v", report.AlreadyDeleted)
	}
	if len(report.SafeToDelete) != 1 || report.SafeToDelete[0].ID != "e-stale" {
		t.Errorf("safeToDelete = %+v", report.SafeToDelete)
	}
}

func TestReconciler_AuditBucketsAreDisjoint(t *testing.T) {
	entries, refs := auditFixture()
	// Make the referenced asset also missing from storage: dangerous still wins
	// and the entry must not appear twice.
	gone := map[string]bool{
		"user-1/temp/ast_01-a.jpg": true,
		"user-1/temp/ast_02-b.mp4": true,
	}

	report, err := newAuditor(entries, refs, gone, nil).Audit(context.Background())
	if err != nil {
		t.Fatalf("Audit returned error: %v", err)
	}

	seen := map[string]int{}
	for _, e := range report.Dangerous {
		seen[e.ID]++
	}
	for _, e := range report.AlreadyDeleted {
		seen[e.ID]++
	}
	for _, e := range report.SafeToDelete {
		seen[e.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			t.Errorf("entry %s appears in %d buckets", id, count)
		}
	}
	if seen["e-dangerous"] != 1 || len(report.Dangerous) != 1 {
		t.Errorf("referenced entry must stay dangerous: %+v", report.Dangerous)
	}
}

func TestReconciler_AuditProbeFailureLeavesEntryUnclassified(t *testing.T) {
	entries, refs := auditFixture()
	probeErr := map[string]error{
		"folder/d": fmt.Errorf("cdn timeout"),
	}

	report, err := newAuditor(entries, refs, nil, probeErr).Audit(context.Background())
	if err != nil {
		t.Fatalf("a single probe failure must not fail the audit: %v", err)
	}
	if len(report.SafeToDelete) != 0 {
		t.Errorf("unprobeable entry must not be marked safe: %+v", report.SafeToDelete)
	}
	if report.Summary.Total != 4 {
		t.Errorf("total must still count every entry, got %d", report.Summary.Total)
	}
}

func TestReconciler_AuditDeletesNothing(t *testing.T) {
	entries, refs := auditFixture()
	store := &MockLedger{
		ListAllFunc: func(ctx context.Context) ([]*ledger.Entry, error) {
			return entries, nil
		},
		DeleteByIDsFunc: func(ctx context.Context, ids []string) (int64, error) {
			t.Fatalf("audit must not prune ledger rows, tried %v", ids)
			return 0, nil
		},
	}
	records := &MockRecordStore{
		ListAllMediaRefsFunc: func(ctx context.Context) ([]record.MediaRef, error) {
			return refs, nil
		},
	}
	direct := &MockDirectStore{}
	direct.DeleteFunc = func(ctx context.Context, identifier string, kind asset.Kind) error {
		t.Fatalf("audit must not delete objects, tried %q", identifier)
		return nil
	}
	legacy := &MockObjectStore{DeleteFunc: direct.DeleteFunc}

	auditor := lifecycle.NewReconciler(store, records, direct, legacy, testClassifier(), zerolog.Nop())
	if _, err := auditor.Audit(context.Background()); err != nil {
		t.Fatalf("Audit returned error: %v", err)
	}
}
