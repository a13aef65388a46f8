// Package session sequences one practice run over an exercise list, scores
// each answer, adapts difficulty, and folds the result into learner progress
// when the run ends.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/lingua/internal/difficulty"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/xp"
)

// ProgressStore reads and writes learner progress. SaveProgress must persist
// the record and the activity atomically.
type ProgressStore interface {
	LoadProgress(ctx context.Context, userID string) (*progress.LearnerProgress, error)
	SaveProgress(ctx context.Context, userID string, p *progress.LearnerProgress, a progress.Activity) error
}

// Phase is the lifecycle position of a session.
type Phase int

const (
	PhaseIdle      Phase = iota // Not started
	PhaseActive                 // Accepting answers
	PhaseCompleted              // Ended and saved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrInvalidState is wrapped by every StateError.
	ErrInvalidState = errors.New("invalid session state")

	// ErrNoExercise is returned by Submit when every exercise has been answered.
	ErrNoExercise = errors.New("no exercise remaining")
)

// StateError reports an operation attempted in the wrong phase.
type StateError struct {
	Op    string
	Phase Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("session: cannot %s while %s", e.Op, e.Phase)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// Answer is a learner's response to the current exercise.
type Answer struct {
	Response    string
	TimeSpentMs int64
}

// AnswerRecord is the scored result of one submitted answer.
type AnswerRecord struct {
	ExerciseID  string          `json:"exercise_id"`
	Response    string          `json:"response"`
	Expected    string          `json:"expected"`
	Correct     bool            `json:"correct"`
	TimeSpentMs int64           `json:"time_spent_ms"`
	XP          xp.Breakdown    `json:"xp"`
	Tier        difficulty.Tier `json:"tier"`
}

// Summary is returned by End.
type Summary struct {
	SessionID          string
	TotalXP            int
	Accuracy           float64 // correct over the exercises in the run, answered or not
	TimeSpentMinutes   float64 // rounded to whole minutes
	ExercisesCompleted int
	Correct            int
	StartTier          difficulty.Tier
	FinalTier          difficulty.Tier
	Records            []AnswerRecord
	Progress           *progress.LearnerProgress
	Changes            progress.FoldResult
}
