package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"reading-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SpacesClient talks to the S3 compatible bucket holding card art.
type SpacesClient struct {
	client  *minio.Client
	bucket  string
	cdnBase string
}

func NewSpacesClient(cfg config.StorageConfig) (*SpacesClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	slog.Info("Connected to object storage", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return &SpacesClient{client: client, bucket: cfg.Bucket, cdnBase: cfg.CDNBase()}, nil
}

// PublicURL is the CDN URL an object key is served from.
func (s *SpacesClient) PublicURL(key string) string {
	return strings.TrimRight(s.cdnBase, "/") + "/" + key
}

// ListObjectURLs returns public URLs of the objects under folder whose key
// ends with ext.
func (s *SpacesClient) ListObjectURLs(ctx context.Context, folder, ext string) ([]string, error) {
	var urls []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    folder + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		if strings.HasSuffix(obj.Key, ext) {
			urls = append(urls, s.PublicURL(obj.Key))
		}
	}
	return urls, nil
}

// DeleteFolder removes every object under folder.
func (s *SpacesClient) DeleteFolder(ctx context.Context, folder string) (int, error) {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    folder + "/",
		Recursive: true,
	})

	deleted := 0
	for obj := range objects {
		if obj.Err != nil {
			return deleted, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", obj.Key, err)
		}
		deleted++
	}
	return deleted, nil
}

// Upload stores a publicly readable, immutable object and returns its URL.
func (s *SpacesClient) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}
