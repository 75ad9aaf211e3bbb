package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/repository"
)

var _ repository.LeaderboardStore = (*redisLeaderboard)(nil)

const leaderboardKey = "codequest:leaderboard"

type redisLeaderboard struct {
	client *goredis.Client
}

// NewLeaderboardStore creates a Redis sorted-set-backed leaderboard.
func NewLeaderboardStore(client *goredis.Client) repository.LeaderboardStore {
	return &redisLeaderboard{client: client}
}

func (r *redisLeaderboard) AddPoints(ctx context.Context, userID uuid.UUID, points int) error {
	if err := r.client.ZIncrBy(ctx, leaderboardKey, float64(points), userID.String()).Err(); err != nil {
		return fmt.Errorf("redis: add leaderboard points: %w", err)
	}
	return nil
}

func (r *redisLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	members, err := r.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		member, ok := m.Member.(string)
		if !ok {
			continue
		}
		userID, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID: userID,
			Points: int(m.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}
