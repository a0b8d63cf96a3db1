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
)

func pendingEntry(id, owner, url, identifier string, kind asset.Kind) *ledger.Entry {
	now := time.Now().UTC()
	return &ledger.Entry{
		ID:                id,
		OwnerID:           owner,
		AssetURL:          url,
		StorageIdentifier: identifier,
		ResourceType:      kind,
		CreatedAt:         now,
		ExpiresAt:         now.Add(24 * time.Hour),
	}
}

func TestCleaner_Cleanup(t *testing.T) {
	entries := []*ledger.Entry{
		pendingEntry("e1", "user-1", transientA, "user-1/temp/ast_01-a.jpg", asset.KindImage),
		pendingEntry("e2", "user-1", legacyD, "folder/d", asset.KindImage),
	}

	var directDeleted, legacyDeleted []string
	var prunedIDs []string
	store := &MockLedger{
		ListForOwnerFunc: func(ctx context.Context, ownerID string) ([]*ledger.Entry, error) {
			return entries, nil
		},
		DeleteByIDsFunc: func(ctx context.Context, ids []string) (int64, error) {
			prunedIDs = ids
			return int64(len(ids)), nil
		},
	}
	direct := &MockDirectStore{}
	direct.DeleteFunc = func(ctx context.Context, identifier string, kind asset.Kind) error {
		directDeleted = append(directDeleted, identifier)
		return nil
	}
	legacy := &MockObjectStore{
		DeleteFunc: func(ctx context.Context, identifier string, kind asset.Kind) error {
			legacyDeleted = append(legacyDeleted, identifier)
			return nil
		},
	}

	cleaner := lifecycle.NewCleaner(store, direct, legacy, testClassifier(), zerolog.Nop())
	result, err := cleaner.Cleanup(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if !result.Success || result.DeletedCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(directDeleted) != 1 || directDeleted[0] != "user-1/temp/ast_01-a.jpg" {
		t.Errorf("direct deletions = %v", directDeleted)
	}
	if len(legacyDeleted) != 1 || legacyDeleted[0] != "folder/d" {
		t.Errorf("legacy deletions = %v", legacyDeleted)
	}
	if len(prunedIDs) != 2 {
		t.Errorf("pruned ids = %v", prunedIDs)
	}
}

func TestCleaner_CleanupScopedToURLs(t *testing.T) {
	entries := []*ledger.Entry{
		pendingEntry("e1", "user-1", transientA, "user-1/temp/ast_01-a.jpg", asset.KindImage),
		pendingEntry("e2", "user-1", transientB, "user-1/temp/ast_02-b.mp4", asset.KindVideo),
	}

	var deleted []string
	store := &MockLedger{
		ListForOwnerFunc: func(ctx context.Context, ownerID string) ([]*ledger.Entry, error) {
			return entries, nil
		},
	}
	direct := &MockDirectStore{}
	direct.DeleteFunc = func(ctx context.Context, identifier string, kind asset.Kind) error {
		deleted = append(deleted, identifier)
		return nil
	}

	cleaner := lifecycle.NewCleaner(store, direct, &MockObjectStore{}, testClassifier(), zerolog.Nop())
	result, err := cleaner.Cleanup(context.Background(), "user-1", []string{transientB})
	if err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if result.DeletedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(deleted) != 1 || deleted[0] != "user-1/temp/ast_02-b.mp4" {
		t.Errorf("deletions = %v", deleted)
	}
}

func TestCleaner_CleanupFailedDeletionKeepsLedgerRow(t *testing.T) {
	entries := []*ledger.Entry{
		pendingEntry("e1", "user-1", transientA, "user-1/temp/ast_01-a.jpg", asset.KindImage),
		pendingEntry("e2", "user-1", transientB, "user-1/temp/ast_02-b.mp4", asset.KindVideo),
	}

	var prunedIDs []string
	store := &MockLedger{
		ListForOwnerFunc: func(ctx context.Context, ownerID string) ([]*ledger.Entry, error) {
			return entries, nil
		},
		DeleteByIDsFunc: func(ctx context.Context, ids []string) (int64, error) {
			prunedIDs = ids
			return int64(len(ids)), nil
		},
	}
	direct := &MockDirectStore{}
	direct.DeleteFunc = func(ctx context.Context, identifier string, kind asset.Kind) error {
		if identifier == "user-1/temp/ast_01-a.jpg" {
			return fmt.Errorf("backend unavailable")
		}
		return nil
	}

	cleaner := lifecycle.NewCleaner(store, direct, &MockObjectStore{}, testClassifier(), zerolog.Nop())
	result, err := cleaner.Cleanup(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if !result.Success || result.DeletedCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(prunedIDs) != 1 || prunedIDs[0] != "e2" {
		t.Errorf("only the deleted entry's row may be pruned, got %v", prunedIDs)
	}
}

func TestCleaner_CleanupNoEntries(t *testing.T) {
	store := &MockLedger{
		DeleteByIDsFunc: func(ctx context.Context, ids []string) (int64, error) {
			t.Fatal("no prune expected for an empty ledger")
			return 0, nil
		},
	}
	cleaner := lifecycle.NewCleaner(store, &MockDirectStore{}, &MockObjectStore{}, testClassifier(), zerolog.Nop())

	result, err := cleaner.Cleanup(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if !result.Success || result.DeletedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
