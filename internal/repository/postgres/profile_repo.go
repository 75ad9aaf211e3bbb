package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/repository"
)

// Ensure pgProfileRepo implements repository.ProfileRepository.
var _ repository.ProfileRepository = (*pgProfileRepo)(nil)

type pgProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &pgProfileRepo{pool: pool}
}

func (r *pgProfileRepo) ActiveMultiplier(ctx context.Context, userID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(active_multiplier, 1.0) FROM user_profiles WHERE user_id = $1`

	var multiplier float64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&multiplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A learner without a profile row earns at the base rate.
			return 1.0, nil
		}
		return 0, fmt.Errorf("postgres: get active multiplier: %w", err)
	}
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	return multiplier, nil
}

// ApplyXP credits XP through the store-owned apply_xp function, which
// maintains the XP ledger and the level curve and reports whether the
// credit crossed a level threshold.
func (r *pgProfileRepo) ApplyXP(ctx context.Context, userID uuid.UUID, xp int) (*domain.LevelChange, error) {
	query := `SELECT leveled_up, new_level FROM apply_xp($1, $2)`

	change := &domain.LevelChange{}
	err := r.pool.QueryRow(ctx, query, userID, xp).Scan(&change.LeveledUp, &change.NewLevel)
	if err != nil {
		return nil, fmt.Errorf("postgres: apply xp: %w", err)
	}
	return change, nil
}
