package lifecycle_test

import (
	"context"

	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/record"
)

// MockRecordStore is a mock implementation of record.Store for testing.
type MockRecordStore struct {
	GetFunc              func(ctx context.Context, id string) (*record.Record, error)
	UpdateMediaFunc      func(ctx context.Context, id string, update record.MediaUpdate) error
	ListAllMediaRefsFunc func(ctx context.Context) ([]record.MediaRef, error)
}

func (m *MockRecordStore) Get(ctx context.Context, id string) (*record.Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, record.ErrNotFound
}

func (m *MockRecordStore) UpdateMedia(ctx context.Context, id string, update record.MediaUpdate) error {
	if m.UpdateMediaFunc != nil {
		return m.UpdateMediaFunc(ctx, id, update)
	}
	return nil
}

func (m *MockRecordStore) ListAllMediaRefs(ctx context.Context) ([]record.MediaRef, error) {
	if m.ListAllMediaRefsFunc != nil {
		return m.ListAllMediaRefsFunc(ctx)
	}
	return nil, nil
}

// MockObjectStore is a mock implementation of lifecycle.ObjectStore.
type MockObjectStore struct {
	ExistsFunc func(ctx context.Context, identifier string, kind asset.Kind) (bool, error)
	DeleteFunc func(ctx context.Context, identifier string, kind asset.Kind) error
}

func (m *MockObjectStore) Exists(ctx context.Context, identifier string, kind asset.Kind) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, identifier, kind)
	}
	return false, nil
}

func (m *MockObjectStore) Delete(ctx context.Context, identifier string, kind asset.Kind) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, identifier, kind)
	}
	return nil
}

// MockDirectStore adds Move on top of MockObjectStore.
type MockDirectStore struct {
	MockObjectStore
	MoveFunc func(ctx context.Context, identifier, destDir string) (string, error)
}

func (m *MockDirectStore) Move(ctx context.Context, identifier, destDir string) (string, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, identifier, destDir)
	}
	return "", nil
}

// MockLedger is a mock implementation of lifecycle.Ledger.
type MockLedger struct {
	ListForOwnerFunc func(ctx context.Context, ownerID string) ([]*ledger.Entry, error)
	ListAllFunc      func(ctx context.Context) ([]*ledger.Entry, error)
	DeleteByIDsFunc  func(ctx context.Context, ids []string) (int64, error)
}

func (m *MockLedger) ListForOwner(ctx context.Context, ownerID string) ([]*ledger.Entry, error) {
	if m.ListForOwnerFunc != nil {
		return m.ListForOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockLedger) ListAll(ctx context.Context) ([]*ledger.Entry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockLedger) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

// MockRefresher records enqueued rewrites.
type MockRefresher struct {
	Rewrites [][4]string
}

func (m *MockRefresher) EnqueueRewrite(ownerID, oldURL, newURL, folder string) {
	m.Rewrites = append(m.Rewrites, [4]string{ownerID, oldURL, newURL, folder})
}

func testClassifier() *asset.Classifier {
	return asset.NewClassifier("https://objects.curator.app", "media", "res.legacycdn.com", "curator-cloud")
}
