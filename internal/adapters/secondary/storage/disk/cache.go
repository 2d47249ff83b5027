package disk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/admin/zodira/astro-api/internal/ports/cache"
)

type Config struct {
	Dir string `envconfig:"DIR" default:"cache/astrology"`
}

// Cache файловый кэш: {dir}/{key}.json, без срока хранения
type Cache struct {
	dir string
}

// NewCache создаёт каталог кэша, если его нет
func NewCache(cfg *Config) (*Cache, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", cfg.Dir, err)
	}
	return &Cache{dir: cfg.Dir}, nil
}

func (c *Cache) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(c.dir, key+".json"), nil
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	p, err := c.path(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", key, cache.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read cache file: %w", err)
	}
	return string(data), nil
}

// Set пишет во временный файл и переименовывает, чтобы читатель не увидел половину JSON.
// ttl не поддерживается.
func (c *Cache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to move cache file: %w", err)
	}
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	p, err := c.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, fmt.Errorf("failed to stat cache file: %w", err)
}

func (c *Cache) Close() error {
	return nil
}
