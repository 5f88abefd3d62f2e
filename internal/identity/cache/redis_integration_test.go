//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisPending_RealRedis runs the pending store against a real redis to
// catch behaviour miniredis does not emulate.
func TestRedisPending_RealRedis(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	defer client.Close()

	p := NewRedisPending(client, "it")
	require.NoError(t, p.Put(ctx, "acc", "SECRET", time.Second))

	got, err := p.Get(ctx, "acc")
	require.NoError(t, err)
	require.Equal(t, "SECRET", got)

	require.Eventually(t, func() bool {
		_, err := p.Get(ctx, "acc")
		return err == ErrMiss
	}, 5*time.Second, 100*time.Millisecond)
}
