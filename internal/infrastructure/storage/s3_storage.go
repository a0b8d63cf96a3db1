package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"curator-server/services/media-lifecycle/internal/config"
	"curator-server/services/media-lifecycle/internal/domain/asset"
	"curator-server/services/media-lifecycle/internal/infrastructure/metrics"
)

// S3Storage is the direct-object backend, keyed by object path. Assets start
// under {owner}/temp/ and are relocated into {owner}/{record}/ once claimed.
type S3Storage struct {
	bucket     string
	publicBase string
	client     *s3.Client
	log        zerolog.Logger
	disabled   bool
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket:     strings.TrimSpace(cfg.S3Bucket),
		publicBase: cfg.PublicObjectBase(),
		log:        logger,
	}

	accessKey := strings.TrimSpace(cfg.S3AccessKeyID)
	secretKey := strings.TrimSpace(cfg.S3SecretKey)
	if storage.bucket == "" || accessKey == "" || secretKey == "" {
		logger.Warn().Msg("MEDIA_S3_BUCKET or credentials are not set; direct-object storage will be disabled until configured")
		storage.disabled = true
		return storage, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	storage.client = client
	return storage, nil
}

func (s *S3Storage) ensureEnabled() error {
	if s.disabled {
		return errStorageDisabled
	}
	return nil
}

// PublicURL returns the externally addressable locator for an object key.
func (s *S3Storage) PublicURL(key string) string {
	escaped := strings.TrimPrefix((&url.URL{Path: "/" + key}).EscapedPath(), "/")
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, escaped)
}

// Upload stores an object. Used by the transient direct-upload path only.
func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	start := time.Now()
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		metrics.RecordStorageOperation("put", "error", time.Since(start).Seconds())
		return err
	}
	metrics.RecordStorageOperation("put", "success", time.Since(start).Seconds())
	return nil
}

// Exists probes object presence by path. The resource kind is irrelevant for
// the direct backend; the key alone identifies the object.
func (s *S3Storage) Exists(ctx context.Context, identifier string, _ asset.Kind) (bool, error) {
	if err := s.ensureEnabled(); err != nil {
		return false, err
	}
	start := time.Now()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(identifier),
	})
	if err != nil {
		if isNotFound(err) {
			metrics.RecordStorageOperation("head", "success", time.Since(start).Seconds())
			return false, nil
		}
		metrics.RecordStorageOperation("head", "error", time.Since(start).Seconds())
		return false, err
	}
	metrics.RecordStorageOperation("head", "success", time.Since(start).Seconds())
	return true, nil
}

// Delete removes an object. Deleting a non-existent object is not an error.
func (s *S3Storage) Delete(ctx context.Context, identifier string, _ asset.Kind) error {
	if err := s.ensureEnabled(); err != nil {
		return err
	}
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(identifier),
	})
	if err != nil && !isNotFound(err) {
		metrics.RecordStorageOperation("delete", "error", time.Since(start).Seconds())
		return err
	}
	metrics.RecordStorageOperation("delete", "success", time.Since(start).Seconds())
	return nil
}

// Move relocates an object into destDir with copy-then-delete semantics and
// returns the destination's public URL. The copy is authoritative: if the
// source delete fails afterwards the move still succeeds and the leftover is
// logged, a duplicate being preferable to data loss. Keys outside the owner's
// temp sub-path are already in their permanent location and are returned
// unchanged, which makes repeated relocation calls no-ops.
func (s *S3Storage) Move(ctx context.Context, identifier, destDir string) (string, error) {
	if err := s.ensureEnabled(); err != nil {
		return "", err
	}
	if !inTransientPath(identifier) {
		return s.PublicURL(identifier), nil
	}

	destKey := strings.TrimSuffix(destDir, "/") + "/" + baseName(identifier)
	if destKey == identifier {
		return s.PublicURL(identifier), nil
	}

	start := time.Now()
	copySource := s.bucket + (&url.URL{Path: "/" + identifier}).EscapedPath()
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(destKey),
		CopySource: aws.String(copySource),
	})
	if err != nil {
		metrics.RecordStorageOperation("copy", "error", time.Since(start).Seconds())
		return "", fmt.Errorf("copy %s to %s: %w", identifier, destKey, err)
	}
	metrics.RecordStorageOperation("copy", "success", time.Since(start).Seconds())

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(identifier),
	}); err != nil && !isNotFound(err) {
		s.log.Warn().Err(err).Str("key", identifier).Msg("source object left behind after copy")
	}

	return s.PublicURL(destKey), nil
}

// Health performs a simple HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func inTransientPath(key string) bool {
	parts := strings.SplitN(key, "/", 3)
	return len(parts) == 3 && parts[1] == "temp"
}

func baseName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}
