package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/codequest-labs/codequest-engine/internal/domain"
)

// ChallengeRepository reads challenge content. Implementations must be
// safe for concurrent use.
type ChallengeRepository interface {
	// GetByID retrieves a challenge by its UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)
}

// SolutionRepository persists per-user solution rows.
type SolutionRepository interface {
	// Upsert inserts or replaces the solution row keyed by (user, challenge).
	Upsert(ctx context.Context, sol *domain.Solution) error
}

// ProfileRepository reads and mutates learner progression state. The
// XP-to-level curve is owned by the data store; ApplyXP reports the
// resulting level change rather than computing it here.
type ProfileRepository interface {
	// ActiveMultiplier returns the learner's current XP multiplier (>= 1.0).
	ActiveMultiplier(ctx context.Context, userID uuid.UUID) (float64, error)

	// ApplyXP credits XP to the learner and returns the level-up signal.
	ApplyXP(ctx context.Context, userID uuid.UUID, xp int) (*domain.LevelChange, error)
}

// LeaderboardStore maintains the global points ranking.
type LeaderboardStore interface {
	// AddPoints credits points to a learner's leaderboard score.
	AddPoints(ctx context.Context, userID uuid.UUID, points int) error

	// Top returns the highest-ranked entries, best first.
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// MultiplierCache is a read-through cache in front of the profile
// multiplier lookup.
type MultiplierCache interface {
	// Get returns the cached multiplier and whether it was present.
	Get(ctx context.Context, userID uuid.UUID) (float64, bool, error)

	// Set caches the multiplier with the store's TTL.
	Set(ctx context.Context, userID uuid.UUID, multiplier float64) error
}

// IdempotencyStore absorbs duplicate submission attempts.
type IdempotencyStore interface {
	// AcquireLock atomically claims the key; false means a duplicate.
	AcquireLock(ctx context.Context, key string) (bool, error)

	// ReleaseLock allows the key to be reused.
	ReleaseLock(ctx context.Context, key string) error
}
