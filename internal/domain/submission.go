package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmitRequest is the scoring consumer's input: the learner already ran
// verification, so the pass counts arrive with the submission.
type SubmitRequest struct {
	ChallengeID    uuid.UUID `json:"challenge_id" binding:"required"`
	Code           string    `json:"code" binding:"required"`
	Language       Language  `json:"language" binding:"required"`
	TestsPassed    int       `json:"tests_passed"`
	TestsTotal     int       `json:"tests_total" binding:"required"`
	TimeElapsedMs  int       `json:"time_elapsed_ms"`
	HintsUsed      int       `json:"hints_used"`
	IsPerfectSolve bool      `json:"is_perfect_solve"`
}

// Solution is the durable per-user, per-challenge row. The store keeps
// exactly one row per (user, challenge); resubmission upserts it.
type Solution struct {
	UserID        uuid.UUID `json:"user_id"`
	ChallengeID   uuid.UUID `json:"challenge_id"`
	Code          string    `json:"code"`
	Language      Language  `json:"language"`
	TestsPassed   int       `json:"tests_passed"`
	TestsTotal    int       `json:"tests_total"`
	TimeElapsedMs int       `json:"time_elapsed_ms"`
	HintsUsed     int       `json:"hints_used"`
	PointsEarned  int       `json:"points_earned"`
	XPGained      int       `json:"xp_gained"`
	Solved        bool      `json:"solved"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// SubmissionOutcome is returned to the caller after a scored submission.
type SubmissionOutcome struct {
	PointsEarned int             `json:"points_earned"`
	XPGained     int             `json:"xp_gained"`
	LeveledUp    bool            `json:"leveled_up"`
	NewLevel     *int            `json:"new_level,omitempty"`
	Rewards      RewardBreakdown `json:"rewards"`
}

// SubmissionEvent is published after a submission is persisted so that
// downstream consumers (achievement unlocks, leaderboard snapshots) can
// react without coupling to this service.
type SubmissionEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	UserID       uuid.UUID `json:"user_id"`
	ChallengeID  uuid.UUID `json:"challenge_id"`
	Solved       bool      `json:"solved"`
	PointsEarned int       `json:"points_earned"`
	XPGained     int       `json:"xp_gained"`
	LeveledUp    bool      `json:"leveled_up"`
	NewLevel     *int      `json:"new_level,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Points int       `json:"points"`
	Rank   int       `json:"rank"`
}
