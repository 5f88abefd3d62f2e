package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPending(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	p := NewRedisPending(client, "")

	_, err := p.Get(ctx, "acc-1")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, p.Put(ctx, "acc-1", "SECRET1", time.Minute))
	got, err := p.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "SECRET1", got)
	assert.True(t, mr.Exists(defaultPrefix+":acc-1"))

	// A second generate replaces the first secret.
	require.NoError(t, p.Put(ctx, "acc-1", "SECRET2", time.Minute))
	got, err = p.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "SECRET2", got)

	mr.FastForward(2 * time.Minute)
	_, err = p.Get(ctx, "acc-1")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, p.Put(ctx, "acc-2", "S", 0))
	assert.Equal(t, PendingTwoFactorTTL, mr.TTL(defaultPrefix+":acc-2"))
	require.NoError(t, p.Delete(ctx, "acc-2"))
	_, err = p.Get(ctx, "acc-2")
	require.ErrorIs(t, err, ErrMiss)
}

func TestRedisPending_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	p := NewRedisPending(client, "test")

	mr.Close()

	require.ErrorIs(t, p.Put(ctx, "acc", "S", time.Minute), ErrUnavailable)
	_, err := p.Get(ctx, "acc")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, p.Ping(ctx), ErrUnavailable)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
}

func TestMemoryPending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryPending()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Put(ctx, "acc-1", "SECRET", time.Minute))
	require.NoError(t, m.Put(ctx, "acc-2", "OTHER", time.Hour))

	got, err := m.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "SECRET", got)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "acc-1")
	require.ErrorIs(t, err, ErrMiss)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Get(ctx, "acc-2")
	require.ErrorIs(t, err, ErrMiss)
}
