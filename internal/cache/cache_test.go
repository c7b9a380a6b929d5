package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUExpiresEntries(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRU(4)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "categories", []byte("[]"), time.Minute))
	got, ok, err := c.Get(ctx, "categories")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("[]"), got)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "categories")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLRUEvictsAndDeletes(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRU(2)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Hour))
	}
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry is evicted")

	require.NoError(t, c.Delete(ctx, "c"))
	_, ok, _ = c.Get(ctx, "c")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "b")
	assert.True(t, ok)
}

func TestNewLRURejectsNonPositiveSize(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis("not a url", "storyhub:")
	assert.Error(t, err)

	c, err := NewRedis("redis://localhost:6379/0", "storyhub:")
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

var (
	_ Cache = (*LRU)(nil)
	_ Cache = (*Redis)(nil)
)
