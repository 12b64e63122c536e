// Package storage archives raw OCR payloads in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultPrefix = "ocr"

// S3RawArchive stores the raw JSON of every written invoice. It is compatible
// with any S3-compatible storage (AWS S3, MinIO, RustFS, etc.)
type S3RawArchive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3RawArchiveOption is a functional option for configuring S3RawArchive
type S3RawArchiveOption func(*S3RawArchive)

// WithLogger sets a custom logger for S3RawArchive
func WithLogger(logger *zap.Logger) S3RawArchiveOption {
	return func(s *S3RawArchive) {
		s.logger = logger
	}
}

// NewS3RawArchive creates a new S3RawArchive from configuration
func NewS3RawArchive(cfg *infraconfig.StorageConfig, opts ...S3RawArchiveOption) (*S3RawArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}

	archive := &S3RawArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3RawArchive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey returns <prefix>/<YYYY>/<MM>/<grn_number>.json
func (s *S3RawArchive) ObjectKey(grnNumber string, at time.Time) string {
	return path.Join(s.prefix, at.Format("2006"), at.Format("01"), grnNumber+".json")
}

// Archive uploads payload under the GRN number and returns the object key
func (s *S3RawArchive) Archive(ctx context.Context, grnNumber string, at time.Time, payload []byte) (string, error) {
	if grnNumber == "" {
		return "", errors.New("grn number is required")
	}
	key := s.ObjectKey(grnNumber, at)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload raw invoice: %w", err)
	}

	s.logger.Debug("raw invoice archived", zap.String("bucket", s.bucket), zap.String("key", key))
	return key, nil
}

// Bucket returns the bucket name
func (s *S3RawArchive) Bucket() string {
	return s.bucket
}
