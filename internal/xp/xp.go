package xp

import "math"

const (
	// XPPerLevel is the flat amount of XP between consecutive levels.
	XPPerLevel = 100

	// SpeedThresholdMs is the answer time under which a correct answer earns the speed bonus.
	SpeedThresholdMs = 10000

	// MaxStreakMultiplier caps how many streak steps contribute to the streak bonus.
	MaxStreakMultiplier = 10

	baseXPPerTier     = 10
	accuracyRate      = 0.5
	speedRate         = 0.2
	streakRatePerStep = 0.1
)

// Input describes a single exercise outcome.
//
// Tier is expected in 1..5. Values outside that range are not rejected here:
// the result is unspecified but the calculation never panics. Range checks
// belong to the caller (the session rejects bad tiers before calling in).
type Input struct {
	Tier          int
	Correct       bool
	TimeSpentMs   int64
	CurrentStreak int
}

// Breakdown is the XP award for one exercise.
//
// The four components are rounded individually for display. Total is the
// rounded sum of the unrounded components, so it can differ by one from the
// sum of the displayed parts.
type Breakdown struct {
	BaseXP        int `json:"base_xp"`
	AccuracyBonus int `json:"accuracy_bonus"`
	SpeedBonus    int `json:"speed_bonus"`
	StreakBonus   int `json:"streak_bonus"`
	Total         int `json:"total"`
}

// Calculate computes the XP award for a single exercise outcome.
//
// The speed bonus requires a correct answer. The streak bonus depends only on
// the streak carried into this answer, not on whether this answer is correct.
func Calculate(in Input) Breakdown {
	base := float64(baseXPPerTier * in.Tier)

	var accuracy, speed float64
	if in.Correct {
		accuracy = base * accuracyRate
		if in.TimeSpentMs < SpeedThresholdMs {
			speed = base * speedRate
		}
	}

	steps := in.CurrentStreak
	if steps < 0 {
		steps = 0
	}
	if steps > MaxStreakMultiplier {
		steps = MaxStreakMultiplier
	}
	streak := base * streakRatePerStep * float64(steps)

	return Breakdown{
		BaseXP:        int(base),
		AccuracyBonus: int(math.Round(accuracy)),
		SpeedBonus:    int(math.Round(speed)),
		StreakBonus:   int(math.Round(streak)),
		Total:         int(math.Round(base + accuracy + speed + streak)),
	}
}

// Level returns the level for a running XP total. Level 1 starts at 0 XP.
func Level(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/XPPerLevel + 1
}

// ForNextLevel returns how much XP is still needed to reach the next level.
func ForNextLevel(totalXP int) int {
	return Level(totalXP)*XPPerLevel - totalXP
}

// ProgressFraction returns progress through the current level in [0, 1).
func ProgressFraction(totalXP int) float64 {
	if totalXP < 0 {
		return 0
	}
	return float64(totalXP%XPPerLevel) / XPPerLevel
}
