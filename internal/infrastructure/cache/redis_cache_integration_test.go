//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
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
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisCache(t *testing.T) {
	c, err := NewRedisCache(RedisConfig{Addr: startRedis(t)})
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "home:newsletter")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "home:newsletter", []byte(`{"enabled":true}`), time.Minute))
	v, ok, err := c.Get(ctx, "home:newsletter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"enabled":true}`, string(v))

	ttl, err := c.client.TTL(ctx, defaultKeyPrefix+"home:newsletter").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "home:newsletter"))
	_, ok, err = c.Get(ctx, "home:newsletter")
	require.NoError(t, err)
	assert.False(t, ok)
}
