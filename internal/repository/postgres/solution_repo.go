package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/repository"
)

// Ensure pgSolutionRepo implements repository.SolutionRepository.
var _ repository.SolutionRepository = (*pgSolutionRepo)(nil)

type pgSolutionRepo struct {
	pool *pgxpool.Pool
}

// NewSolutionRepository creates a PostgreSQL-backed solution repository.
func NewSolutionRepository(pool *pgxpool.Pool) repository.SolutionRepository {
	return &pgSolutionRepo{pool: pool}
}

func (r *pgSolutionRepo) Upsert(ctx context.Context, sol *domain.Solution) error {
	query := `
		INSERT INTO user_solutions
			(user_id, challenge_id, code, language, tests_passed, tests_total,
			 time_elapsed_ms, hints_used, points_earned, xp_gained, solved, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, challenge_id) DO UPDATE SET
			code = EXCLUDED.code,
			language = EXCLUDED.language,
			tests_passed = EXCLUDED.tests_passed,
			tests_total = EXCLUDED.tests_total,
			time_elapsed_ms = EXCLUDED.time_elapsed_ms,
			hints_used = EXCLUDED.hints_used,
			points_earned = EXCLUDED.points_earned,
			xp_gained = EXCLUDED.xp_gained,
			solved = EXCLUDED.solved,
			submitted_at = EXCLUDED.submitted_at`

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, query,
		sol.UserID, sol.ChallengeID, sol.Code, sol.Language,
		sol.TestsPassed, sol.TestsTotal, sol.TimeElapsedMs, sol.HintsUsed,
		sol.PointsEarned, sol.XPGained, sol.Solved, now,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert solution: %w", err)
	}
	sol.SubmittedAt = now
	return nil
}
