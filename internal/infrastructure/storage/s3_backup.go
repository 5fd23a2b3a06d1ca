// Package storage provides object storage implementations for catalog backups.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	syncapp "github.com/wholesale/backend/internal/application/sync"
	"github.com/wholesale/backend/internal/domain/catalog"
	infraconfig "github.com/wholesale/backend/internal/infrastructure/config"
)

// backupKeyPrefix is where catalog snapshots live inside the bucket
const backupKeyPrefix = "backups/catalog/"

// Ensure S3BackupStore implements BackupStore
var _ syncapp.BackupStore = (*S3BackupStore)(nil)

// S3BackupStore archives catalog snapshots in an S3-compatible bucket (AWS
// S3, MinIO, RustFS and friends) before each sync run rewrites the catalog.
type S3BackupStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// S3BackupStoreOption is a functional option for configuring S3BackupStore
type S3BackupStoreOption func(*S3BackupStore)

// WithLogger sets a custom logger for S3BackupStore
func WithLogger(logger *zap.Logger) S3BackupStoreOption {
	return func(s *S3BackupStore) {
		s.logger = logger
	}
}

// WithClock overrides the snapshot clock, for tests
func WithClock(now func() time.Time) S3BackupStoreOption {
	return func(s *S3BackupStore) {
		s.now = now
	}
}

// NewS3BackupStore creates a backup store from configuration. An empty
// endpoint means plain AWS; anything else is treated as an S3-compatible
// server.
func NewS3BackupStore(cfg *infraconfig.StorageConfig, opts ...S3BackupStoreOption) (*S3BackupStore, error) {
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

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	store := &S3BackupStore{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// BackupCatalog writes a timestamped JSON snapshot of the catalog
func (s *S3BackupStore) BackupCatalog(ctx context.Context, skus []catalog.SKU) error {
	payload, err := json.Marshal(skus)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	key := backupKeyPrefix + s.now().UTC().Format("2006-01-02T15-04-05Z") + ".json"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload catalog snapshot: %w", err)
	}

	s.logger.Info("Catalog snapshot uploaded",
		zap.String("key", key),
		zap.Int("skus", len(skus)),
		zap.Int("bytes", len(payload)))
	return nil
}

// Prune deletes snapshots older than the retention window
func (s *S3BackupStore) Prune(ctx context.Context, retention time.Duration) error {
	cutoff := s.now().Add(-retention)

	var continuation *string
	pruned := 0
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(backupKeyPrefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return fmt.Errorf("failed to list catalog snapshots: %w", err)
		}

		for _, object := range page.Contents {
			if object.LastModified == nil || !object.LastModified.Before(cutoff) {
				continue
			}
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    object.Key,
			})
			if err != nil {
				return fmt.Errorf("failed to delete snapshot %s: %w", aws.ToString(object.Key), err)
			}
			pruned++
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		continuation = page.NextContinuationToken
	}

	if pruned > 0 {
		s.logger.Info("Old catalog snapshots pruned", zap.Int("count", pruned))
	}
	return nil
}
