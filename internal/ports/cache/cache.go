package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound ключа нет в кэше
var ErrNotFound = errors.New("key not found")

// Cache интерфейс для работы с кэшем.
// ttl == 0 означает хранение без срока.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
