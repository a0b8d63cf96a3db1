package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
)

var errCDNDisabled = errors.New("legacy CDN backend is not configured; set MEDIA_CDN_* to enable it")

// CDNStorage talks to the legacy CDN's admin API. Assets there are keyed by
// public id and organized logically by the CDN itself, so this backend only
// ever checks existence and deletes; it never relocates.
type CDNStorage struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	log        zerolog.Logger
	disabled   bool
}

func NewCDNStorage(cfg *config.Config, log zerolog.Logger) *CDNStorage {
	logger := log.With().Str("component", "cdn-storage").Logger()

	storage := &CDNStorage{
		baseURL:   strings.TrimSuffix(cfg.CDNAPIBaseURL, "/"),
		cloudName: cfg.CDNCloudName,
		apiKey:    strings.TrimSpace(cfg.CDNAPIKey),
		apiSecret: strings.TrimSpace(cfg.CDNAPISecret),
		httpClient: &http.Client{
			Timeout: cfg.CDNTimeout,
		},
		log: logger,
	}

	if storage.cloudName == "" || storage.apiKey == "" || storage.apiSecret == "" {
		logger.Warn().Msg("MEDIA_CDN_CLOUD_NAME or credentials are not set; legacy CDN backend will be disabled until configured")
		storage.disabled = true
	}

	return storage
}

func (c *CDNStorage) ensureEnabled() error {
	if c.disabled {
		return errCDNDisabled
	}
	return nil
}

// Exists probes each resource-kind endpoint starting with the asset's own
// kind. The kind recorded at upload time may not match how the CDN actually
// classified the content, so a miss on the recorded kind falls through to
// the remaining endpoints before the asset is declared gone.
func (c *CDNStorage) Exists(ctx context.Context, identifier string, kind asset.Kind) (bool, error) {
	if err := c.ensureEnabled(); err != nil {
		return false, err
	}

	for _, probe := range probeOrder(kind) {
		found, err := c.resourceExists(ctx, identifier, probe)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// Delete destroys the resource via the admin API. A "not found" response is
// success: the object is gone either way.
func (c *CDNStorage) Delete(ctx context.Context, identifier string, kind asset.Kind) error {
	if err := c.ensureEnabled(); err != nil {
		return err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.resourceURL(identifier, kind), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordStorageOperation("cdn_delete", "error", time.Since(start).Seconds())
		return fmt.Errorf("cdn delete %s: %w", identifier, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusNotFound:
		metrics.RecordStorageOperation("cdn_delete", "success", time.Since(start).Seconds())
		return nil
	default:
		metrics.RecordStorageOperation("cdn_delete", "error", time.Since(start).Seconds())
		return fmt.Errorf("cdn delete %s: unexpected status %s", identifier, resp.Status)
	}
}

func (c *CDNStorage) resourceExists(ctx context.Context, identifier string, kind asset.Kind) (bool, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resourceURL(identifier, kind), nil)
	if err != nil {
		return false, err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordStorageOperation("cdn_head", "error", time.Since(start).Seconds())
		return false, fmt.Errorf("cdn probe %s as %s: %w", identifier, kind, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		metrics.RecordStorageOperation("cdn_head", "success", time.Since(start).Seconds())
		return true, nil
	case http.StatusNotFound:
		metrics.RecordStorageOperation("cdn_head", "success", time.Since(start).Seconds())
		return false, nil
	default:
		metrics.RecordStorageOperation("cdn_head", "error", time.Since(start).Seconds())
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return false, fmt.Errorf("cdn probe %s as %s: status %s %s", identifier, kind, resp.Status, apiErr.Error.Message)
	}
}

func (c *CDNStorage) resourceURL(identifier string, kind asset.Kind) string {
	escaped := strings.TrimPrefix((&url.URL{Path: "/" + identifier}).EscapedPath(), "/")
	return fmt.Sprintf("%s/%s/resources/%s/upload/%s",
		c.baseURL, url.PathEscape(c.cloudName), kind, escaped)
}

// Health verifies the admin API is reachable.
func (c *CDNStorage) Health(ctx context.Context) error {
	if c.disabled {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/ping", c.baseURL, url.PathEscape(c.cloudName)), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cdn ping: unexpected status %s", resp.Status)
	}
	return nil
}

func probeOrder(kind asset.Kind) []asset.Kind {
	order := []asset.Kind{kind}
	for _, k := range asset.Kinds {
		if k != kind {
			order = append(order, k)
		}
	}
	return order
}
