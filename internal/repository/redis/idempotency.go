package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/codequest-labs/codequest-engine/internal/repository"
)

var _ repository.IdempotencyStore = (*redisIdempotency)(nil)

const (
	lockKeyPrefix = "codequest:submit:"

	// lockTTL covers the longest plausible submission round-trip; the key
	// expires on its own if the process dies mid-flight.
	lockTTL = 30 * time.Second
)

type redisIdempotency struct {
	client *goredis.Client
}

// NewIdempotencyStore creates a Redis SETNX-based submission lock.
func NewIdempotencyStore(client *goredis.Client) repository.IdempotencyStore {
	return &redisIdempotency{client: client}
}

func (r *redisIdempotency) AcquireLock(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKeyPrefix+key, time.Now().Unix(), lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis: acquire submission lock: %w", err)
	}
	return ok, nil
}

func (r *redisIdempotency) ReleaseLock(ctx context.Context, key string) error {
	return r.client.Del(ctx, lockKeyPrefix+key).Err()
}
