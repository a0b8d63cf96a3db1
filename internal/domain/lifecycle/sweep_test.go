package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
)

func TestLegacySweeper_SweepDeletesNothing(t *testing.T) {
	now := time.Now().UTC()
	entries := []*ledger.Entry{
		{ID: "e1", AssetURL: transientA, ResourceType: asset.KindImage, ExpiresAt: now.Add(-time.Hour)},
		{ID: "e2", AssetURL: transientB, ResourceType: asset.KindVideo, ExpiresAt: now.Add(time.Hour)},
	}
	store := &MockLedger{
		ListAllFunc: func(ctx context.Context) ([]*ledger.Entry, error) {
			return entries, nil
		},
		DeleteByIDsFunc: func(ctx context.Context, ids []string) (int64, error) {
			t.Fatalf("sweep must not prune ledger rows, tried %v", ids)
			return 0, nil
		},
	}

	result, err := lifecycle.NewLegacySweeper(store, zerolog.Nop()).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if !result.Success || result.DeletedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Message == "" {
		t.Error("expected a deprecation message")
	}
}
