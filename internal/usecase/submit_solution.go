package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codequest-labs/codequest-engine/internal/domain"
	"github.com/codequest-labs/codequest-engine/internal/metrics"
	"github.com/codequest-labs/codequest-engine/internal/publisher"
	"github.com/codequest-labs/codequest-engine/internal/repository"
	"github.com/codequest-labs/codequest-engine/internal/scoring"
)

// SubmitSolutionUsecase scores a verified submission and persists the
// outcome: solution upsert, XP credit, leaderboard update, event publish.
type SubmitSolutionUsecase struct {
	challenges  repository.ChallengeRepository
	solutions   repository.SolutionRepository
	profiles    repository.ProfileRepository
	leaderboard repository.LeaderboardStore
	multipliers repository.MultiplierCache
	idempotency repository.IdempotencyStore
	events      publisher.Publisher
	logger      *zap.Logger
}

// NewSubmitSolutionUsecase creates a new SubmitSolutionUsecase.
func NewSubmitSolutionUsecase(
	challenges repository.ChallengeRepository,
	solutions repository.SolutionRepository,
	profiles repository.ProfileRepository,
	leaderboard repository.LeaderboardStore,
	multipliers repository.MultiplierCache,
	idempotency repository.IdempotencyStore,
	events publisher.Publisher,
	logger *zap.Logger,
) *SubmitSolutionUsecase {
	return &SubmitSolutionUsecase{
		challenges:  challenges,
		solutions:   solutions,
		profiles:    profiles,
		leaderboard: leaderboard,
		multipliers: multipliers,
		idempotency: idempotency,
		events:      events,
		logger:      logger,
	}
}

// Execute scores the submission and persists the outcome. Errors never
// escape as panics; the delivery layer maps them to the {success:false}
// envelope.
func (uc *SubmitSolutionUsecase) Execute(ctx context.Context, userID uuid.UUID, req *domain.SubmitRequest) (outcome *domain.SubmissionOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Submission handling panicked",
				zap.Any("panic", r),
				zap.String("user_id", userID.String()),
			)
			outcome = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	// The scoring engine assumes already-clamped inputs.
	if req.HintsUsed < 0 {
		req.HintsUsed = 0
	}
	if req.TestsPassed < 0 {
		req.TestsPassed = 0
	}
	if req.TestsPassed > req.TestsTotal {
		req.TestsPassed = req.TestsTotal
	}

	lockKey := userID.String() + ":" + req.ChallengeID.String()
	acquired, err := uc.idempotency.AcquireLock(ctx, lockKey)
	if err != nil {
		uc.logger.Warn("Idempotency check unavailable, proceeding", zap.Error(err))
	} else if !acquired {
		return nil, domain.ErrDuplicateSubmission
	} else {
		defer func() {
			_ = uc.idempotency.ReleaseLock(ctx, lockKey)
		}()
	}

	challenge, err := uc.challenges.GetByID(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	multiplier := uc.activeMultiplier(ctx, userID)

	breakdown := scoring.Score(domain.SubmissionContext{
		ChallengePoints:  challenge.Points,
		IsPerfectSolve:   req.IsPerfectSolve,
		HintsUsed:        req.HintsUsed,
		TestsPassed:      req.TestsPassed,
		TestsTotal:       req.TestsTotal,
		ActiveMultiplier: multiplier,
	})

	solved := req.TestsPassed == req.TestsTotal
	solution := &domain.Solution{
		UserID:        userID,
		ChallengeID:   req.ChallengeID,
		Code:          req.Code,
		Language:      req.Language,
		TestsPassed:   req.TestsPassed,
		TestsTotal:    req.TestsTotal,
		TimeElapsedMs: req.TimeElapsedMs,
		HintsUsed:     req.HintsUsed,
		PointsEarned:  breakdown.PointsEarned,
		XPGained:      breakdown.XPGained,
		Solved:        solved,
	}
	if err := uc.solutions.Upsert(ctx, solution); err != nil {
		uc.logger.Error("Failed to upsert solution",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("challenge_id", req.ChallengeID.String()),
		)
		return nil, fmt.Errorf("persist solution: %w", err)
	}

	if breakdown.XPGained > 0 {
		change, err := uc.profiles.ApplyXP(ctx, userID, breakdown.XPGained)
		if err != nil {
			uc.logger.Error("Failed to apply XP",
				zap.Error(err),
				zap.String("user_id", userID.String()),
			)
			return nil, fmt.Errorf("apply xp: %w", err)
		}
		breakdown.LeveledUp = change.LeveledUp
		if change.LeveledUp {
			newLevel := change.NewLevel
			breakdown.NewLevel = &newLevel
			metrics.LevelUpsTotal.Inc()
		}

		// Leaderboard is a derived view; a failed update is logged, not fatal.
		if err := uc.leaderboard.AddPoints(ctx, userID, breakdown.PointsEarned); err != nil {
			uc.logger.Warn("Failed to update leaderboard", zap.Error(err), zap.String("user_id", userID.String()))
		}
	}

	uc.publishEvent(ctx, userID, req.ChallengeID, solved, &breakdown)

	result := "unsolved"
	if solved {
		result = "solved"
	}
	metrics.SubmissionsTotal.WithLabelValues(result).Inc()

	uc.logger.Info("Submission scored",
		zap.String("user_id", userID.String()),
		zap.String("challenge_id", req.ChallengeID.String()),
		zap.Bool("solved", solved),
		zap.Int("points", breakdown.PointsEarned),
		zap.Int("xp", breakdown.XPGained),
		zap.Bool("leveled_up", breakdown.LeveledUp),
	)

	return &domain.SubmissionOutcome{
		PointsEarned: breakdown.PointsEarned,
		XPGained:     breakdown.XPGained,
		LeveledUp:    breakdown.LeveledUp,
		NewLevel:     breakdown.NewLevel,
		Rewards:      breakdown,
	}, nil
}

// activeMultiplier resolves the learner's multiplier through the cache,
// falling back to the profile store, then to the base rate. Multiplier
// lookup failures degrade silently to 1.0 rather than blocking a
// submission.
func (uc *SubmitSolutionUsecase) activeMultiplier(ctx context.Context, userID uuid.UUID) float64 {
	if cached, ok, err := uc.multipliers.Get(ctx, userID); err == nil && ok {
		return cached
	}

	multiplier, err := uc.profiles.ActiveMultiplier(ctx, userID)
	if err != nil {
		uc.logger.Warn("Multiplier lookup failed, using base rate", zap.Error(err), zap.String("user_id", userID.String()))
		return 1.0
	}

	if err := uc.multipliers.Set(ctx, userID, multiplier); err != nil {
		uc.logger.Debug("Failed to cache multiplier", zap.Error(err))
	}
	return multiplier
}

// publishEvent emits the submission event best-effort: downstream
// consumers catch up from the store if the broker is down.
func (uc *SubmitSolutionUsecase) publishEvent(ctx context.Context, userID, challengeID uuid.UUID, solved bool, breakdown *domain.RewardBreakdown) {
	submissionID, err := uuid.NewV7()
	if err != nil {
		uc.logger.Warn("Failed to generate submission event ID", zap.Error(err))
		return
	}

	event := &domain.SubmissionEvent{
		SubmissionID: submissionID,
		UserID:       userID,
		ChallengeID:  challengeID,
		Solved:       solved,
		PointsEarned: breakdown.PointsEarned,
		XPGained:     breakdown.XPGained,
		LeveledUp:    breakdown.LeveledUp,
		NewLevel:     breakdown.NewLevel,
		OccurredAt:   time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish submission event",
			zap.Error(err),
			zap.String("submission_id", submissionID.String()),
		)
	}
}
