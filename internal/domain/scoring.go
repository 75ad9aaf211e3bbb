package domain

// SubmissionContext is the input to the scoring engine. Callers clamp
// HintsUsed >= 0 and 0 <= TestsPassed <= TestsTotal before scoring; the
// engine does not re-validate.
type SubmissionContext struct {
	ChallengePoints  int
	IsPerfectSolve   bool
	HintsUsed        int
	TestsPassed      int
	TestsTotal       int
	ActiveMultiplier float64
}

// BonusLine is a named bonus or penalty line item in a reward breakdown.
// The current rule set leaves the list empty; the seam exists for future
// bonus types.
type BonusLine struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// RewardBreakdown is the output of scoring one submission.
type RewardBreakdown struct {
	BaseXP       int         `json:"base_xp"`
	PointsEarned int         `json:"points_earned"`
	XPGained     int         `json:"xp_gained"`
	Coins        int         `json:"coins"`
	Multiplier   float64     `json:"multiplier"`
	LeveledUp    bool        `json:"leveled_up"`
	NewLevel     *int        `json:"new_level,omitempty"`
	Bonuses      []BonusLine `json:"bonuses"`
}

// LevelChange is the post-submission profile signal read back from the
// data store after XP is applied. The XP-to-level curve is owned by the
// store, not computed here.
type LevelChange struct {
	LeveledUp bool
	NewLevel  int
}
