// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/lppm/internal/platform/constants"
)

// # Revocation Store

// RedisRevocationStore implements [RevocationStore] with one expiring key per token id.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRevocationStore creates a Redis-backed [RevocationStore].
func NewRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

/*
Revoke denylists tokenID until its natural expiry.

Description: A non-positive ttl means the token has already expired, so
nothing is written.

Parameters:
  - context: context.Context
  - tokenID: string
  - ttl: time.Duration

Returns:
  - error: Redis failures
*/
func (store *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := constants.RedisPrefixRevokedToken + tokenID
	if err := store.client.Set(context, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether tokenID is on the denylist.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: True when revoked
  - error: Redis failures
*/
func (store *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := store.client.Exists(context, constants.RedisPrefixRevokedToken+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_exists_failed: %w", err)
	}
	return count > 0, nil
}

// # Lockout Store

// RedisLockoutStore implements [LockoutStore] with an INCR counter whose TTL is
// the lockout window. The window opens on the first failure and is not
// extended by later ones.
type RedisLockoutStore struct {
	client redis.UniversalClient
}

// NewLockoutStore creates a Redis-backed [LockoutStore].
func NewLockoutStore(client redis.UniversalClient) *RedisLockoutStore {
	return &RedisLockoutStore{client: client}
}

/*
Failures reads the counter and its remaining TTL in one round-trip.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - int: Failures in the current window
  - time.Duration: Time until the window closes
  - error: Redis failures
*/
func (store *RedisLockoutStore) Failures(context context.Context, key string) (int, time.Duration, error) {
	redisKey := constants.RedisPrefixLoginFailure + key

	var countCmd *redis.StringCmd
	var ttlCmd *redis.DurationCmd
	_, err := store.client.Pipelined(context, func(pipe redis.Pipeliner) error {
		countCmd = pipe.Get(context, redisKey)
		ttlCmd = pipe.TTL(context, redisKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, fmt.Errorf("redis_lockout_read_failed: %w", err)
	}

	count, err := countCmd.Int()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("redis_lockout_read_failed: %w", err)
	}

	remaining := ttlCmd.Val()
	if remaining < 0 {
		remaining = 0
	}

	return count, remaining, nil
}

/*
RegisterFailure increments the counter, opening the window on the first failure.

Description: The increment and the TTL read run in one transaction. A counter
found without a TTL gets the window re-armed, so a lost EXPIRE can never leave
an email locked out for good.

Parameters:
  - context: context.Context
  - key: string
  - window: time.Duration

Returns:
  - int: Failures after the increment
  - error: Redis failures
*/
func (store *RedisLockoutStore) RegisterFailure(context context.Context, key string, window time.Duration) (int, error) {
	redisKey := constants.RedisPrefixLoginFailure + key

	var incrCmd *redis.IntCmd
	var ttlCmd *redis.DurationCmd
	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		incrCmd = pipe.Incr(context, redisKey)
		ttlCmd = pipe.TTL(context, redisKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis_lockout_incr_failed: %w", err)
	}

	// TTL reports -1 for a key without expiry.
	if ttlCmd.Val() < 0 {
		if err := store.client.Expire(context, redisKey, window).Err(); err != nil {
			return 0, fmt.Errorf("redis_lockout_expire_failed: %w", err)
		}
	}

	return int(incrCmd.Val()), nil
}

/*
Reset clears the counter.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Redis failures
*/
func (store *RedisLockoutStore) Reset(context context.Context, key string) error {
	if err := store.client.Del(context, constants.RedisPrefixLoginFailure+key).Err(); err != nil {
		return fmt.Errorf("redis_lockout_reset_failed: %w", err)
	}
	return nil
}
