package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

func newTestClient(t *testing.T, ttl time.Duration) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewClient(rdb, ttl), mr
}

func TestClient_StorageContract(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, 0)

	_, err := c.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, c.Set(ctx, "cart", []byte(`[]`)))
	got, err := c.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	exists, err := c.Exists(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "cart"))
	_, err = c.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, c.Health())
}

func TestClient_AppliesTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t, time.Hour)

	require.NoError(t, c.Set(ctx, "session:abc:cart", []byte(`[]`)))
	assert.Equal(t, time.Hour, mr.TTL("session:abc:cart"))

	mr.FastForward(2 * time.Hour)
	_, err := c.Get(ctx, "session:abc:cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClient_ServerDown(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	c := NewClient(rdb, 0)
	mr.Close()

	_, err = c.Get(ctx, "cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Error(t, c.Set(ctx, "cart", []byte("[]")))
}
