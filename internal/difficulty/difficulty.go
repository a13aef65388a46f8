package difficulty

import (
	"errors"
	"fmt"
)

// Tier is an exercise difficulty level from MinTier to MaxTier.
type Tier int

const (
	MinTier Tier = 1
	MaxTier Tier = 5
)

const (
	// RaiseAfterCorrect is the correct-answer run that raises the tier.
	RaiseAfterCorrect = 3
	// LowerAfterIncorrect is the incorrect-answer run that lowers the tier.
	LowerAfterIncorrect = 2
)

// ErrTierOutOfRange is returned when a tier falls outside MinTier..MaxTier.
var ErrTierOutOfRange = errors.New("difficulty tier out of range")

// Valid reports whether t is within MinTier..MaxTier.
func (t Tier) Valid() bool {
	return t >= MinTier && t <= MaxTier
}

// Validate returns ErrTierOutOfRange (wrapped with the value) for invalid tiers.
func (t Tier) Validate() error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrTierOutOfRange, int(t))
	}
	return nil
}

// Label returns a human-readable name for the tier.
func (t Tier) Label() string {
	switch t {
	case 1:
		return "Beginner"
	case 2:
		return "Elementary"
	case 3:
		return "Intermediate"
	case 4:
		return "Advanced"
	case 5:
		return "Expert"
	default:
		return "Unknown"
	}
}

// Reason tags why a tier did or did not move.
type Reason string

const (
	ReasonNone            Reason = "none"
	ReasonCorrectStreak   Reason = "correct-streak"
	ReasonIncorrectStreak Reason = "incorrect-streak"
)

// Input is the running answer state a tier decision is based on.
type Input struct {
	Tier            Tier
	CorrectStreak   int
	IncorrectStreak int
}

// Result is the tier decision. Changed is false when the rule fired at the
// ceiling or floor and the tier could not move.
type Result struct {
	Tier    Tier
	Changed bool
	Reason  Reason
}

// Adjust decides the next tier. It does not touch the streak counters;
// resetting them after a change is the caller's job.
func Adjust(in Input) (Result, error) {
	if err := in.Tier.Validate(); err != nil {
		return Result{}, err
	}

	switch {
	case in.CorrectStreak >= RaiseAfterCorrect:
		next := min(in.Tier+1, MaxTier)
		return Result{Tier: next, Changed: next != in.Tier, Reason: ReasonCorrectStreak}, nil
	case in.IncorrectStreak >= LowerAfterIncorrect:
		next := max(in.Tier-1, MinTier)
		return Result{Tier: next, Changed: next != in.Tier, Reason: ReasonIncorrectStreak}, nil
	}
	return Result{Tier: in.Tier, Reason: ReasonNone}, nil
}
