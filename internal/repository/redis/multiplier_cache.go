package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/codequest-labs/codequest-engine/internal/repository"
)

var _ repository.MultiplierCache = (*redisMultiplierCache)(nil)

const (
	multiplierKeyPrefix = "codequest:multiplier:"
	multiplierTTL       = 5 * time.Minute
)

type redisMultiplierCache struct {
	client *goredis.Client
}

// NewMultiplierCache creates a Redis-backed multiplier cache.
func NewMultiplierCache(client *goredis.Client) repository.MultiplierCache {
	return &redisMultiplierCache{client: client}
}

func (r *redisMultiplierCache) Get(ctx context.Context, userID uuid.UUID) (float64, bool, error) {
	key := multiplierKeyPrefix + userID.String()
	val, err := r.client.Get(ctx, key).Float64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis: get multiplier: %w", err)
	}
	return val, true, nil
}

func (r *redisMultiplierCache) Set(ctx context.Context, userID uuid.UUID, multiplier float64) error {
	key := multiplierKeyPrefix + userID.String()
	if err := r.client.Set(ctx, key, multiplier, multiplierTTL).Err(); err != nil {
		return fmt.Errorf("redis: set multiplier: %w", err)
	}
	return nil
}
