package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/domain/ledger"
	"curator-server/services/media-lifecycle/internal/domain/lifecycle"
	"curator-server/services/media-lifecycle/internal/domain/record"
	"curator-server/services/media-lifecycle/internal/infrastructure/auth"
	"curator-server/services/media-lifecycle/internal/interfaces/httpserver/handlers"
)

// MockLedgerRepo is a mock implementation of ledger.Repository for testing.
type MockLedgerRepo struct {
	InsertFunc               func(ctx context.Context, entry *ledger.Entry) error
	DeleteByOwnerAndURLsFunc func(ctx context.Context, ownerID string, urls []string) (int64, error)
	DeleteByIDsFunc          func(ctx context.Context, ids []string) (int64, error)
	ListForOwnerFunc         func(ctx context.Context, ownerID string) ([]*ledger.Entry, error)
	ListAllFunc              func(ctx context.Context) ([]*ledger.Entry, error)
}

func (m *MockLedgerRepo) Insert(ctx context.Context, entry *ledger.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	return nil
}

func (m *MockLedgerRepo) DeleteByOwnerAndURLs(ctx context.Context, ownerID string, urls []string) (int64, error) {
	if m.DeleteByOwnerAndURLsFunc != nil {
		return m.DeleteByOwnerAndURLsFunc(ctx, ownerID, urls)
	}
	return 0, nil
}

func (m *MockLedgerRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return 0, nil
}

func (m *MockLedgerRepo) ListForOwner(ctx context.Context, ownerID string) ([]*ledger.Entry, error) {
	if m.ListForOwnerFunc != nil {
		return m.ListForOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockLedgerRepo) ListAll(ctx context.Context) ([]*ledger.Entry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

// MockRecordStore is a mock implementation of record.Store for testing.
type MockRecordStore struct {
	GetFunc         func(ctx context.Context, id string) (*record.Record, error)
	UpdateMediaFunc func(ctx context.Context, id string, update record.MediaUpdate) error
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
	return nil, nil
}

// MockDirectStore is a mock direct-object store.
type MockDirectStore struct {
	MoveFunc func(ctx context.Context, identifier, destDir string) (string, error)
}

func (m *MockDirectStore) Exists(ctx context.Context, identifier string, kind asset.Kind) (bool, error) {
	return true, nil
}

func (m *MockDirectStore) Delete(ctx context.Context, identifier string, kind asset.Kind) error {
	return nil
}

func (m *MockDirectStore) Move(ctx context.Context, identifier, destDir string) (string, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, identifier, destDir)
	}
	return "", nil
}

type noopRefresher struct{}

func (noopRefresher) EnqueueRewrite(ownerID, oldURL, newURL, folder string) {}

func newTestRouter(t *testing.T, repo *MockLedgerRepo, records *MockRecordStore, direct *MockDirectStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()
	classifier := asset.NewClassifier("https://objects.curator.app", "media", "res.legacycdn.com", "curator-cloud")

	ledgerService := ledger.NewService(repo, classifier, 24*time.Hour, log)
	relocator := lifecycle.NewRelocator(records, direct, classifier, noopRefresher{}, log)
	handler := handlers.NewLifecycleHandler(ledgerService, relocator, nil, nil, nil, log)

	validator, err := auth.NewValidator(context.Background(), &config.Config{}, log)
	if err != nil {
		t.Fatalf("auth validator: %v", err)
	}

	r := gin.New()
	r.Use(validator.Middleware())
	r.POST("/v1/uploads/track", handler.TrackUpload)
	r.POST("/v1/uploads/mark-saved", handler.MarkSaved)
	r.POST("/v1/records/:id/reorganize", handler.Reorganize)
	return r
}

func doJSON(r *gin.Engine, method, path, owner string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-Debug-Owner", owner)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLifecycleHandler_TrackUpload(t *testing.T) {
	var inserted *ledger.Entry
	repo := &MockLedgerRepo{
		InsertFunc: func(ctx context.Context, entry *ledger.Entry) error {
			inserted = entry
			return nil
		},
	}
	r := newTestRouter(t, repo, &MockRecordStore{}, &MockDirectStore{})

	w := doJSON(r, http.MethodPost, "/v1/uploads/track", "user-1", gin.H{
		"assetUrl":     "https://objects.curator.app/media/user-1/temp/a.png",
		"resourceType": "image",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if inserted == nil || inserted.OwnerID != "user-1" {
		t.Fatalf("unexpected insert: %+v", inserted)
	}
}

func TestLifecycleHandler_TrackUploadRejectsUnknownURL(t *testing.T) {
	r := newTestRouter(t, &MockLedgerRepo{}, &MockRecordStore{}, &MockDirectStore{})

	w := doJSON(r, http.MethodPost, "/v1/uploads/track", "user-1", gin.H{
		"assetUrl":     "https://cdn.elsewhere.com/file.png",
		"resourceType": "image",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLifecycleHandler_TrackUploadRequiresPrincipal(t *testing.T) {
	r := newTestRouter(t, &MockLedgerRepo{}, &MockRecordStore{}, &MockDirectStore{})

	w := doJSON(r, http.MethodPost, "/v1/uploads/track", "", gin.H{
		"assetUrl":     "https://objects.curator.app/media/u/temp/a.png",
		"resourceType": "image",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLifecycleHandler_MarkSaved(t *testing.T) {
	repo := &MockLedgerRepo{
		DeleteByOwnerAndURLsFunc: func(ctx context.Context, ownerID string, urls []string) (int64, error) {
			return 2, nil
		},
	}
	r := newTestRouter(t, repo, &MockRecordStore{}, &MockDirectStore{})

	w := doJSON(r, http.MethodPost, "/v1/uploads/mark-saved", "user-1", gin.H{
		"assetUrls": []string{"https://a.example/1.png", "https://a.example/2.png"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success      bool  `json:"success"`
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.DeletedCount != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestLifecycleHandler_ReorganizeStatusCodes(t *testing.T) {
	records := &MockRecordStore{
		GetFunc: func(ctx context.Context, id string) (*record.Record, error) {
			if id == "rec-gone" {
				return nil, record.ErrNotFound
			}
			return &record.Record{ID: id, OwnerID: "someone-else"}, nil
		},
	}
	r := newTestRouter(t, &MockLedgerRepo{}, records, &MockDirectStore{})

	tests := []struct {
		name     string
		path     string
		owner    string
		wantCode int
	}{
		{"missing record", "/v1/records/rec-gone/reorganize", "user-1", http.StatusNotFound},
		{"foreign record", "/v1/records/rec-42/reorganize", "user-1", http.StatusForbidden},
		{"no principal", "/v1/records/rec-42/reorganize", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, tt.path, tt.owner, nil)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
