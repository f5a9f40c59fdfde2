// Package storage provides object storage implementations for invoice uploads.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	infraconfig "github.com/bizops/backend/internal/infrastructure/config"
)

var _ ledgerapp.InvoiceStorage = (*S3InvoiceStorage)(nil)

// unsafeKeyChars matches every character that is replaced when building a
// storage key from a user-supplied filename.
var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// S3InvoiceStorage stores invoice files in an S3-compatible bucket. A custom
// endpoint with path-style addressing covers MinIO and similar stores.
type S3InvoiceStorage struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	publicBaseURL string
	presignTTL    time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// S3InvoiceStorageOption configures optional storage behavior.
type S3InvoiceStorageOption func(*S3InvoiceStorage)

func WithLogger(logger *zap.Logger) S3InvoiceStorageOption {
	return func(s *S3InvoiceStorage) { s.logger = logger }
}

// WithPresignExpiration sets how long generated download links stay valid.
func WithPresignExpiration(d time.Duration) S3InvoiceStorageOption {
	return func(s *S3InvoiceStorage) { s.presignTTL = d }
}

// WithClock overrides the timestamp source used for storage keys.
func WithClock(now func() time.Time) S3InvoiceStorageOption {
	return func(s *S3InvoiceStorage) { s.now = now }
}

func NewS3InvoiceStorage(cfg *infraconfig.StorageConfig, opts ...S3InvoiceStorageOption) (*S3InvoiceStorage, error) {
	if err := checkStorageConfig(cfg); err != nil {
		return nil, err
	}

	client, err := newS3Client(cfg)
	if err != nil {
		return nil, err
	}

	storage := &S3InvoiceStorage{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		presignTTL:    cfg.PresignExpiry,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.presignTTL <= 0 {
		storage.presignTTL = time.Hour
	}
	return storage, nil
}

func checkStorageConfig(cfg *infraconfig.StorageConfig) error {
	switch {
	case cfg == nil:
		return errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return errors.New("storage bucket is required")
	case cfg.AccessKeyID == "":
		return errors.New("storage access key is required")
	case cfg.SecretAccessKey == "":
		return errors.New("storage secret key is required")
	}
	return nil
}

func newS3Client(cfg *infraconfig.StorageConfig) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.Contains(endpoint, "://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// EnsureBucket creates the bucket when it does not exist yet. Called once at
// startup so uploads never race bucket creation.
func (s *S3InvoiceStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("head bucket %q: %w", s.bucket, err)
	}

	s.logger.Info("creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// BuildKey derives the storage key for an uploaded file: a millisecond
// timestamp prefix followed by the sanitized original filename.
func (s *S3InvoiceStorage) BuildKey(fileName string) string {
	return fmt.Sprintf("%d_%s", s.now().UnixMilli(), SanitizeFileName(fileName))
}

// SanitizeFileName replaces every character outside [a-zA-Z0-9._-] with an
// underscore so the name is safe to use as an object key.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	return unsafeKeyChars.ReplaceAllString(name, "_")
}

// Upload stores the file under a sanitized timestamped key and returns the
// key with its public URL.
func (s *S3InvoiceStorage) Upload(ctx context.Context, fileName string, data []byte, contentType string) (*ledgerapp.StoredObject, error) {
	key := s.BuildKey(fileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	s.logger.Info("invoice uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return &ledgerapp.StoredObject{Key: key, PublicURL: s.PublicURL(key)}, nil
}

// PublicURL returns the public link for a stored object.
func (s *S3InvoiceStorage) PublicURL(storageKey string) string {
	if s.publicBaseURL == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, storageKey)
	}
	return s.publicBaseURL + "/" + storageKey
}

// DownloadURL generates a presigned link for a stored object. A non-positive
// expiresIn falls back to the configured default.
func (s *S3InvoiceStorage) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = s.presignTTL
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign object %q: %w", storageKey, err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

// Delete removes a stored object. Deleting a missing key succeeds.
func (s *S3InvoiceStorage) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", storageKey, err)
	}
	return nil
}

// Exists reports whether an object is present in the bucket.
func (s *S3InvoiceStorage) Exists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	switch {
	case err == nil:
		return true, nil
	case isMissingObject(err):
		return false, nil
	default:
		return false, fmt.Errorf("head object %q: %w", storageKey, err)
	}
}

// isMissingObject covers both the typed SDK errors and the string forms some
// S3-compatible services return for absent keys.
func isMissingObject(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}

// GetBucket returns the bucket name.
func (s *S3InvoiceStorage) GetBucket() string {
	return s.bucket
}
