package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the media lifecycle service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"media-lifecycle"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEDIA_LIFECYCLE_PORT" envDefault:"8287"`
	LogLevel        string        `env:"MEDIA_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database - Read/Write Split (required, no defaults)
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"` // Optional read replica

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Direct-Object Storage (S3-compatible)
	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT" envDefault:"https://s3.curator.app"`
	S3PublicEndpoint string `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEDIA_S3_REGION" envDefault:"us-west-2"`
	S3Bucket         string `env:"MEDIA_S3_BUCKET"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`     // AWS standard naming
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"` // AWS standard naming
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`

	// Legacy CDN Storage (admin API)
	CDNAPIBaseURL   string        `env:"MEDIA_CDN_API_BASE_URL" envDefault:"https://api.legacycdn.com/v1"`
	CDNCloudName    string        `env:"MEDIA_CDN_CLOUD_NAME"`
	CDNAPIKey       string        `env:"MEDIA_CDN_API_KEY"`
	CDNAPISecret    string        `env:"MEDIA_CDN_API_SECRET"`
	CDNDeliveryHost string        `env:"MEDIA_CDN_DELIVERY_HOST" envDefault:"res.legacycdn.com"`
	CDNTimeout      time.Duration `env:"MEDIA_CDN_TIMEOUT" envDefault:"15s"`

	// Media Configuration
	MaxMediaBytes    int64         `env:"MEDIA_MAX_BYTES" envDefault:"20971520"`
	PendingUploadTTL time.Duration `env:"MEDIA_PENDING_UPLOAD_TTL" envDefault:"24h"`

	// Library refresh worker
	RefreshQueueSize   int           `env:"MEDIA_REFRESH_QUEUE_SIZE" envDefault:"256"`
	RefreshTaskTimeout time.Duration `env:"MEDIA_REFRESH_TASK_TIMEOUT" envDefault:"30s"`

	// Authentication
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	Account     string `env:"ACCOUNT"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`

	// Operator key guarding the audit and sweep endpoints
	OpsKey string `env:"MEDIA_OPS_KEY"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.S3PublicEndpoint = strings.TrimSpace(cfg.S3PublicEndpoint)
	cfg.CDNCloudName = strings.TrimSpace(cfg.CDNCloudName)
	cfg.CDNDeliveryHost = strings.TrimSpace(cfg.CDNDeliveryHost)
	if cfg.MaxMediaBytes <= 0 {
		cfg.MaxMediaBytes = 20 * 1024 * 1024
	}
	if cfg.PendingUploadTTL <= 0 {
		cfg.PendingUploadTTL = 24 * time.Hour
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// GetDatabaseWriteDSN returns the write database connection string.
func (c *Config) GetDatabaseWriteDSN() string {
	return c.DBPostgresqlWriteDSN
}

// GetDatabaseReadDSN returns the read database connection string.
// If DB_POSTGRESQL_READ1_DSN is set, it returns that.
// Otherwise, falls back to write DSN (no replica configured).
func (c *Config) GetDatabaseReadDSN() string {
	if c.DBPostgresqlRead1DSN != "" {
		return c.DBPostgresqlRead1DSN
	}
	return c.GetDatabaseWriteDSN()
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// PublicObjectBase returns the base URL public asset URLs are built from.
func (c *Config) PublicObjectBase() string {
	if c.S3PublicEndpoint != "" {
		return strings.TrimSuffix(c.S3PublicEndpoint, "/")
	}
	return strings.TrimSuffix(c.S3Endpoint, "/")
}
