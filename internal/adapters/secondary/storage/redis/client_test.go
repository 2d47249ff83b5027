package redis

import (
	"context"
	"testing"
	"time"

	"github.com/admin/zodira/astro-api/internal/ports/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewClient(rdb, "astrology:")
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestClient_SetAndGet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "rasi_1990_6_15", `{"output":[]}`, 0))

	val, err := c.Get(ctx, "rasi_1990_6_15")
	require.NoError(t, err)
	assert.Equal(t, `{"output":[]}`, val)

	assert.True(t, mr.Exists("astrology:rasi_1990_6_15"))
	assert.Zero(t, mr.TTL("astrology:rasi_1990_6_15"))
}

func TestClient_GetNotFound(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestClient_TTLAndDelete(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestConfig_NewConnection(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &Config{Host: mr.Host(), Port: mr.Port(), DialTimeout: time.Second}

	rdb, err := cfg.NewConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	assert.Equal(t, mr.Addr(), rdb.Options().Addr)

	mr.Close()
	_, err = cfg.NewConnection()
	assert.ErrorContains(t, err, "redis ping failed")
}
