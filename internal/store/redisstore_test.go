//go:build integration

package store

// Integration tests for the Redis backend using a real Redis via
// testcontainers. Run with: go test -tags integration ./internal/store/... -v

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *RedisStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	return NewRedisStore(redis.NewClient(opts))
}

func TestRedisStore_RoundTrip(t *testing.T) {
	rs := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rs.Put(ctx, KeySettings, []byte(`{"storeName":"Test"}`)))
	got, err := rs.Get(ctx, KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"storeName":"Test"}`, string(got))
}

func TestRedisStore_MissingKey(t *testing.T) {
	rs := setupRedis(t)
	_, err := rs.Get(context.Background(), KeyProducts)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_StateRoundTrip(t *testing.T) {
	rs := setupRedis(t)
	ctx := context.Background()

	first := NewState(rs)
	first.Update(func(d *Data) []string {
		d.DarkMode = true
		return []string{KeyDarkMode}
	})
	require.NoError(t, first.Flush(ctx))

	second := NewState(rs)
	second.Load(ctx)
	second.View(func(d *Data) {
		assert.True(t, d.DarkMode)
	})
}
