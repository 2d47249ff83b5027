package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/admin/zodira/astro-api/internal/ports/cache"
	"github.com/minio/minio-go/v7"
)

// Client кэш частей карты в S3: один объект {prefix}/{key}.json на ключ.
// TTL не поддерживается, записи живут до ручного удаления.
type Client struct {
	client *minio.Client
	bucket string
	prefix string
	log    *slog.Logger
}

// NewClient создаёт кэш поверх minio.Client
func NewClient(client *minio.Client, bucket, prefix string, log *slog.Logger) cache.Cache {
	return &Client{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}
}

func (c *Client) objectName(key string) string {
	return path.Join(c.prefix, key+".json")
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// Get читает объект по ключу
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	name := c.objectName(key)

	object, err := c.client.GetObject(ctx, c.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get object %s: %w", name, err)
	}
	defer object.Close()

	// GetObject ленивый, отсутствие объекта видно только при чтении
	data, err := io.ReadAll(object)
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%s: %w", key, cache.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read object %s: %w", name, err)
	}

	return string(data), nil
}

// Set записывает объект; ttl игнорируется
func (c *Client) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	name := c.objectName(key)
	if ttl > 0 {
		c.log.Debug("s3 cache ignores ttl", "key", key, "ttl", ttl)
	}

	_, err := c.client.PutObject(ctx, c.bucket, name, bytes.NewReader([]byte(value)), int64(len(value)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", name, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	name := c.objectName(key)
	if err := c.client.RemoveObject(ctx, c.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", name, err)
	}
	return nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	name := c.objectName(key)
	if _, err := c.client.StatObject(ctx, c.bucket, name, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", name, err)
	}
	return true, nil
}

func (c *Client) Close() error {
	return nil
}
