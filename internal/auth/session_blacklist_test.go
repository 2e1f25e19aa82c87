package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestInMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryBlacklistStore()

	isBlacklisted, err := store.IsBlacklisted(ctx, "non-existent-token")
	assert.NoError(t, err)
	assert.False(t, isBlacklisted)

	require.NoError(t, store.AddToBlacklist(ctx, "blacklisted-token", time.Now().Add(time.Hour)))
	isBlacklisted, err = store.IsBlacklisted(ctx, "blacklisted-token")
	assert.NoError(t, err)
	assert.True(t, isBlacklisted)
}

func TestCleanUpExpired(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryBlacklistStore()

	require.NoError(t, store.AddToBlacklist(ctx, "expired-token-1", time.Now().Add(-time.Hour)))
	require.NoError(t, store.AddToBlacklist(ctx, "expired-token-2", time.Now().Add(-time.Minute)))
	require.NoError(t, store.AddToBlacklist(ctx, "valid-token", time.Now().Add(time.Hour)))

	assert.Equal(t, 2, store.CleanUpExpired())

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.Len(t, store.blacklist, 1)
	assert.Contains(t, store.blacklist, "valid-token")
}

func TestScheduleCleanUp(t *testing.T) {
	c := cron.New()
	store := NewInMemoryBlacklistStore()

	id, err := ScheduleCleanUp(c, store, "@every 5m", nil)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = ScheduleCleanUp(c, store, "not a spec", nil)
	assert.Error(t, err)
}

func TestRedisBlacklistStore(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis test container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisBlacklistStore(client)

	isBlacklisted, err := store.IsBlacklisted(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)

	require.NoError(t, store.AddToBlacklist(ctx, "revoked", time.Now().Add(time.Minute)))
	isBlacklisted, err = store.IsBlacklisted(ctx, "revoked")
	require.NoError(t, err)
	assert.True(t, isBlacklisted)

	ttl, err := client.TTL(ctx, fmt.Sprintf("%srevoked", store.prefix)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.AddToBlacklist(ctx, "already-expired", time.Now().Add(-time.Minute)))
	isBlacklisted, err = store.IsBlacklisted(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}
