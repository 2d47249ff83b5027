package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/admin/zodira/astro-api/internal/ports/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache", "astrology")
	c, err := NewCache(&Config{Dir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Get(ctx, "rasi_1990_6_15")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "rasi_1990_6_15", `{"output":[]}`, 0))

	data, err := os.ReadFile(filepath.Join(dir, "rasi_1990_6_15.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"output":[]}`, string(data))

	val, err := c.Get(ctx, "rasi_1990_6_15")
	require.NoError(t, err)
	assert.Equal(t, `{"output":[]}`, val)

	ok, err := c.Exists(ctx, "rasi_1990_6_15")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "rasi_1990_6_15"))
	require.NoError(t, c.Delete(ctx, "rasi_1990_6_15"))

	ok, err = c.Exists(ctx, "rasi_1990_6_15")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must not be left behind")
}

func TestCache_RejectsPathKeys(t *testing.T) {
	c, err := NewCache(&Config{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Error(t, c.Set(context.Background(), "../escape", "x", 0))
	_, err = c.Get(context.Background(), "a/b")
	assert.Error(t, err)
}
