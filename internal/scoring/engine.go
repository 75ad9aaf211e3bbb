// Package scoring computes the reward for a scored submission. It is a
// pure function of its inputs; the active multiplier and the level-up
// signal are injected by the caller.
package scoring

import (
	"math"

	"github.com/codequest-labs/codequest-engine/internal/domain"
)

const (
	// perfectSolveBonus multiplies the base reward for a perfect solve.
	perfectSolveBonus = 1.5

	// hintPenaltyPerHint is deducted from the reward per hint used.
	hintPenaltyPerHint = 0.10

	// maxHintPenalty caps the total hint deduction.
	maxHintPenalty = 0.50
)

// Score computes the reward breakdown for one submission.
//
// The operation order is a behavioral contract: the perfect-solve bonus is
// applied before the hint penalty, and both before the all-or-nothing
// test-pass gate. Reordering changes numeric outcomes.
func Score(ctx domain.SubmissionContext) domain.RewardBreakdown {
	basePoints := ctx.ChallengePoints
	if ctx.IsPerfectSolve {
		basePoints = int(math.Floor(float64(basePoints) * perfectSolveBonus))
	}

	penalty := float64(ctx.HintsUsed) * hintPenaltyPerHint
	if penalty > maxHintPenalty {
		penalty = maxHintPenalty
	}
	adjustedPoints := int(math.Floor(float64(basePoints) * (1 - penalty)))

	// No partial credit: partial test passage earns nothing.
	allTestsPassed := ctx.TestsPassed == ctx.TestsTotal

	pointsEarned := 0
	xpGained := 0
	if allTestsPassed {
		pointsEarned = adjustedPoints
		xpGained = int(math.Floor(float64(pointsEarned) * ctx.ActiveMultiplier))
	}

	return domain.RewardBreakdown{
		BaseXP:       ctx.ChallengePoints,
		PointsEarned: pointsEarned,
		XPGained:     xpGained,
		Coins:        0,
		Multiplier:   ctx.ActiveMultiplier,
		Bonuses:      []domain.BonusLine{},
	}
}
