// Package storage wraps the MinIO client used to publish clips to
// S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/RA1LGUN/AudioClipTool/config"
	"github.com/RA1LGUN/AudioClipTool/logger"
)

// Client wraps a MinIO client bound to one bucket. Uploads return publicly
// resolvable URLs; once a write is accepted it is assumed durable.
type Client struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	timeout       time.Duration
}

// NewClient creates a Client from the storage section of the configuration
// and ensures the bucket exists.
func NewClient(cfg *config.Config) (*Client, error) {
	mc, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	c := &Client{
		client:        mc,
		bucket:        cfg.MinioBucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		timeout:       cfg.UploadTimeout,
	}
	if err := c.ensureBucket(cfg.MinioRegion); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBucket(region string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", c.bucket, err)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", c.bucket, err)
		}
		logger.Info("created storage bucket", logger.String("bucket", c.bucket))
	}
	return nil
}

// Upload stores data under key and returns the public URL it is reachable
// at. The write is bounded by the configured upload timeout in addition to
// whatever deadline ctx carries.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger.Info("storage upload",
		logger.String("key", key),
		logger.Int("size", len(data)))

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := c.URL(key)
	logger.Info("storage upload done", logger.String("url", url))
	return url, nil
}

// URL returns the public URL for an object key. When no public base URL is
// configured the bucket path on the endpoint is used.
func (c *Client) URL(key string) string {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.client.EndpointURL().String(), "/"), c.bucket, key)
}
