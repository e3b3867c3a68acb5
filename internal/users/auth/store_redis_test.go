// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/users/auth"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestRedisRevocationStore(t *testing.T) {
	server, client := newRedis(t)
	store := auth.NewRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	server.FastForward(time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry outlives the token")

	require.NoError(t, store.Revoke(ctx, "jti-2", -time.Second))
	assert.False(t, server.Exists("auth:revoked:jti-2"))
}

func TestRedisLockoutStore(t *testing.T) {
	server, client := newRedis(t)
	store := auth.NewLockoutStore(client)
	ctx := context.Background()

	count, remaining, err := store.Failures(ctx, "sari@univ.ac.id")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, remaining)

	for want := 1; want <= 3; want++ {
		count, err := store.RegisterFailure(ctx, "sari@univ.ac.id", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		server.FastForward(time.Minute)
	}

	count, remaining, err = store.Failures(ctx, "sari@univ.ac.id")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 7*time.Minute, remaining, "window is not extended by later failures")

	require.NoError(t, store.Reset(ctx, "sari@univ.ac.id"))
	count, _, err = store.Failures(ctx, "sari@univ.ac.id")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedisLockoutStore_RearmsCounterWithoutExpiry(t *testing.T) {
	server, client := newRedis(t)
	store := auth.NewLockoutStore(client)
	ctx := context.Background()

	// A counter left behind by a failed EXPIRE.
	redisKey := constants.RedisPrefixLoginFailure + "sari@univ.ac.id"
	require.NoError(t, server.Set(redisKey, "5"))
	require.Zero(t, server.TTL(redisKey))

	count, err := store.RegisterFailure(ctx, "sari@univ.ac.id", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	assert.Equal(t, 10*time.Minute, server.TTL(redisKey))

	server.FastForward(10 * time.Minute)
	count, _, err = store.Failures(ctx, "sari@univ.ac.id")
	require.NoError(t, err)
	assert.Zero(t, count)
}
