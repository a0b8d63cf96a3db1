package storage

import (
	"context"
	"errors"

	"curator-server/services/media-lifecycle/internal/domain/asset"
)

var errStorageDisabled = errors.New("media storage backend is not configured; set MEDIA_S3_* to enable it")

// ObjectStore is the narrow per-backend contract both backends satisfy.
// Delete is idempotent: removing an object that is already gone succeeds.
type ObjectStore interface {
	Exists(ctx context.Context, identifier string, kind asset.Kind) (bool, error)
	Delete(ctx context.Context, identifier string, kind asset.Kind) error
	Health(ctx context.Context) error
}

var (
	_ ObjectStore = (*S3Storage)(nil)
	_ ObjectStore = (*CDNStorage)(nil)
)
