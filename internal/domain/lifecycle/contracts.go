package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
)

// ErrNotRecordOwner is returned when the caller is not the record's owning
// principal. Distinct from record.ErrNotFound on purpose.
var ErrNotRecordOwner = errors.New("caller does not own this record")

// ErrRecordUpdateFailed marks the moved-but-not-recorded inconsistency: the
// final record write failed after assets were already physically relocated.
// Operators need to recognize this case, so it is never folded into the
// per-asset move errors.
var ErrRecordUpdateFailed = errors.New("failed to update record with new URLs")

// ObjectStore is the per-backend surface the lifecycle engines use.
type ObjectStore interface {
	Exists(ctx context.Context, identifier string, kind asset.Kind) (bool, error)
	Delete(ctx context.Context, identifier string, kind asset.Kind) error
}

// DirectStore adds relocation, which only the direct-object backend supports.
type DirectStore interface {
	ObjectStore
	Move(ctx context.Context, identifier, destDir string) (string, error)
}

// Ledger is the slice of the upload ledger the engines read and prune.
type Ledger interface {
	ListForOwner(ctx context.Context, ownerID string) ([]*ledger.Entry, error)
	ListAll(ctx context.Context) ([]*ledger.Entry, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// Refresher receives best-effort media library rewrites after relocation.
// Implementations must never block the caller.
type Refresher interface {
	EnqueueRewrite(ownerID, oldURL, newURL, folder string)
}

// backends routes an asset variant to the store that owns it.
type backends struct {
	direct DirectStore
	legacy ObjectStore
}

func (b backends) forAsset(a *asset.Asset) (ObjectStore, error) {
	switch a.Backend {
	case asset.BackendDirect:
		return b.direct, nil
	case asset.BackendLegacyCDN:
		return b.legacy, nil
	default:
		return nil, fmt.Errorf("no storage backend for %q", a.Backend)
	}
}
