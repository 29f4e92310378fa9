package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/infrastructure/cache"
)

type report struct {
	Total int `json:"total"`
}

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, time.Minute, zerolog.Nop()), mr
}

// counter devuelve un loader que cuenta sus invocaciones.
func counter(calls *int, total int) func(context.Context) (any, error) {
	return func(context.Context) (any, error) {
		*calls++
		return report{Total: total}, nil
	}
}

func TestFetchJSON_CacheaHastaInvalidar(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	calls := 0

	var first report
	require.NoError(t, c.FetchJSON(ctx, "owner-a", "top", &first, counter(&calls, 10)))
	var second report
	require.NoError(t, c.FetchJSON(ctx, "owner-a", "top", &second, counter(&calls, 99)))

	assert.Equal(t, 10, first.Total)
	assert.Equal(t, 10, second.Total, "segunda lectura desde caché")
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("analytics:owner-a:top:v1"))
	assert.Equal(t, time.Minute, mr.TTL("analytics:owner-a:top:v1"))

	require.NoError(t, c.Invalidate(ctx, "owner-a"))

	var third report
	require.NoError(t, c.FetchJSON(ctx, "owner-a", "top", &third, counter(&calls, 20)))
	assert.Equal(t, 20, third.Total)
	assert.Equal(t, 2, calls)
	assert.True(t, mr.Exists("analytics:owner-a:top:v2"))
}

func TestInvalidate_SoloAfectaAlPropietario(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	calls := 0

	var out report
	require.NoError(t, c.FetchJSON(ctx, "owner-a", "top", &out, counter(&calls, 1)))
	require.NoError(t, c.FetchJSON(ctx, "owner-b", "top", &out, counter(&calls, 2)))
	require.NoError(t, c.Invalidate(ctx, "owner-a"))

	require.NoError(t, c.FetchJSON(ctx, "owner-b", "top", &out, counter(&calls, 3)))
	assert.Equal(t, 2, out.Total, "owner-b conserva su entrada")
	assert.Equal(t, 2, calls)

	ver, err := c.Version(ctx, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)
}

func TestFetchJSON_ErrorDelLoaderNoSeCachea(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var out report
	err := c.FetchJSON(ctx, "owner-a", "top", &out, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("analytics:owner-a:top:v1"))
}

func TestFetchJSON_RedisCaido_UsaLoader(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()
	calls := 0

	var out report
	require.NoError(t, c.FetchJSON(context.Background(), "owner-a", "top", &out, counter(&calls, 7)))
	assert.Equal(t, 7, out.Total)
	assert.Equal(t, 1, calls)
}
