package postgres

import (
	"errors"
	"fmt"

	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/repository"
)

// Ensure pgChallengeRepo implements repository.ChallengeRepository.
var _ repository.ChallengeRepository = (*pgChallengeRepo)(nil)

// defaultDifficulty substitutes for rows authored without a difficulty
// label; the lowest difficulty is the documented default.
const defaultDifficulty = "beginner"

type pgChallengeRepo struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository creates a PostgreSQL-backed challenge repository.
func NewChallengeRepository(pool *pgxpool.Pool) repository.ChallengeRepository {
	return &pgChallengeRepo{pool: pool}
}

func (r *pgChallengeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	query := `
		SELECT id, title, COALESCE(difficulty, $2), points, created_at, updated_at
		FROM challenges
		WHERE id = $1`

	ch := &domain.Challenge{}
	err := r.pool.QueryRow(ctx, query, id, defaultDifficulty).Scan(
		&ch.ID, &ch.Title, &ch.Difficulty, &ch.Points, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("postgres: get challenge by id: %w", err)
	}
	return ch, nil
}
