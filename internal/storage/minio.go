package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioStore keeps attachment blobs in a single bucket and serves them by
// direct object URL.
type MinioStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
	logger   zerolog.Logger
}

var _ FileStore = (*MinioStore)(nil)

func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger zerolog.Logger) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinioStore{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		useSSL:   useSSL,
		logger:   logger,
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info().Str("bucket", bucket).Msg("Created new bucket")
	}

	logger.Info().Str("endpoint", endpoint).Str("bucket", bucket).Msg("Connected to MinIO")
	return s, nil
}

// Upload stores the blob under a random object name that keeps the original
// extension, so the kind classification survives round trips.
func (s *MinioStore) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, float64, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := uuid.New().String() + strings.ToLower(path.Ext(name))

	info, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload file: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	fileURL := fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName)
	sizeMB := float64(info.Size) / (1024 * 1024)
	return fileURL, sizeMB, nil
}

// Remove deletes the object behind a URL previously returned by Upload.
// Unknown URLs are ignored: the metadata row is the source of truth and a
// dangling blob is cheaper than a failed delete.
func (s *MinioStore) Remove(ctx context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return nil
	}
	objectName := strings.TrimPrefix(parsed.Path, "/"+s.bucket+"/")
	if objectName == "" || objectName == parsed.Path {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
