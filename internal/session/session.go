package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/difficulty"
	"github.com/abhisek/lingua/internal/exercise"
	"github.com/abhisek/lingua/internal/logging"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/xp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config wires a Session to its collaborators. Store is required; a nil
// Clock uses the system clock and a nil Logger discards output.
type Config struct {
	UserID     string
	Store      ProgressStore
	Clock      clock.Clock
	Logger     logrus.FieldLogger
	Catalog    *achievement.Catalog
	Curriculum *curriculum.Graph
}

// StartOptions tune a single run.
type StartOptions struct {
	// DefaultTier is used when the exercise list is empty or ForceTier is set.
	// Zero means difficulty.MinTier.
	DefaultTier difficulty.Tier
	ForceTier   bool

	// LessonID, if set, is marked complete when the run ends with at least
	// one answer.
	LessonID string
}

// Session is a single-writer state machine: Idle, then Active, then
// Completed. It is not safe for concurrent use.
type Session struct {
	cfg    Config
	logger logrus.FieldLogger

	phase     Phase
	id        string
	lessonID  string
	exercises []exercise.Exercise
	index     int
	startTier difficulty.Tier
	tier      difficulty.Tier
	correct   int // consecutive correct answers
	incorrect int // consecutive incorrect answers
	totalXP   int
	records   []AnswerRecord
	startedAt time.Time
}

// New creates an idle session.
func New(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	return &Session{cfg: cfg, logger: logging.OrDiscard(cfg.Logger)}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// ID returns the current run's id, empty before the first Start.
func (s *Session) ID() string { return s.id }

// Tier returns the running difficulty tier.
func (s *Session) Tier() difficulty.Tier { return s.tier }

// Records returns a copy of the answers scored so far.
func (s *Session) Records() []AnswerRecord {
	return append([]AnswerRecord(nil), s.records...)
}

// Remaining returns how many exercises are left to answer.
func (s *Session) Remaining() int {
	return len(s.exercises) - s.index
}

// Current returns the exercise awaiting an answer.
func (s *Session) Current() (exercise.Exercise, bool) {
	if s.phase != PhaseActive || s.index >= len(s.exercises) {
		return exercise.Exercise{}, false
	}
	return s.exercises[s.index], true
}

// Start begins a new run over exercises. Valid from Idle or Completed.
func (s *Session) Start(exercises []exercise.Exercise, opts StartOptions) error {
	if s.phase == PhaseActive {
		return &StateError{Op: "start", Phase: s.phase}
	}

	tier := opts.DefaultTier
	if len(exercises) > 0 && !opts.ForceTier {
		tier = exercises[0].Tier
	}
	if tier == 0 {
		tier = difficulty.MinTier
	}
	if err := tier.Validate(); err != nil {
		return err
	}

	s.id = uuid.NewString()
	s.lessonID = opts.LessonID
	s.exercises = append([]exercise.Exercise(nil), exercises...)
	s.index = 0
	s.startTier = tier
	s.tier = tier
	s.correct = 0
	s.incorrect = 0
	s.totalXP = 0
	s.records = nil
	s.startedAt = s.cfg.Clock.Now()
	s.phase = PhaseActive

	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"user_id":    s.cfg.UserID,
		"exercises":  len(exercises),
		"tier":       int(tier),
		"lesson_id":  opts.LessonID,
	}).Info("session started")
	return nil
}

// Submit scores ans against the current exercise and advances. XP uses the
// tier and correct streak in effect before this answer. The tier is then
// adjusted, and the streak counters reset only when it changes.
func (s *Session) Submit(ans Answer) (AnswerRecord, error) {
	if s.phase != PhaseActive {
		return AnswerRecord{}, &StateError{Op: "submit", Phase: s.phase}
	}
	if s.index >= len(s.exercises) {
		return AnswerRecord{}, ErrNoExercise
	}

	ex := s.exercises[s.index]
	correct := exercise.Check(ans.Response, ex)

	award := xp.Calculate(xp.Input{
		Tier:          int(s.tier),
		Correct:       correct,
		TimeSpentMs:   ans.TimeSpentMs,
		CurrentStreak: s.correct,
	})
	rec := AnswerRecord{
		ExerciseID:  ex.ID,
		Response:    ans.Response,
		Expected:    ex.Answer,
		Correct:     correct,
		TimeSpentMs: ans.TimeSpentMs,
		XP:          award,
		Tier:        s.tier,
	}
	s.records = append(s.records, rec)
	s.totalXP += award.Total
	s.index++

	if correct {
		s.correct++
		s.incorrect = 0
	} else {
		s.incorrect++
		s.correct = 0
	}

	adj, err := difficulty.Adjust(difficulty.Input{
		Tier:            s.tier,
		CorrectStreak:   s.correct,
		IncorrectStreak: s.incorrect,
	})
	if err != nil {
		// The tier is validated on Start and only moves within range.
		return rec, err
	}
	if adj.Changed {
		s.logger.WithFields(logrus.Fields{
			"session_id": s.id,
			"from":       int(s.tier),
			"to":         int(adj.Tier),
			"reason":     string(adj.Reason),
		}).Debug("difficulty changed")
		s.tier = adj.Tier
		s.correct = 0
		s.incorrect = 0
	}
	return rec, nil
}

// End closes the run, folds it into the learner's progress and saves it in
// one store call. On a store error the session stays Active so the caller
// can retry End or Abandon.
func (s *Session) End(ctx context.Context) (*Summary, error) {
	if s.phase != PhaseActive {
		return nil, &StateError{Op: "end", Phase: s.phase}
	}

	now := s.cfg.Clock.Now()
	sum := s.summarize(now)

	current, err := s.cfg.Store.LoadProgress(ctx, s.cfg.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", s.id).Error("load progress failed")
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if current == nil {
		current = progress.New()
	}

	act := progress.Activity{
		SessionID: s.id,
		StartedAt: s.startedAt,
		EndedAt:   now,
		XP:        sum.TotalXP,
		Exercises: sum.ExercisesCompleted,
		Correct:   sum.Correct,
		Accuracy:  sum.Accuracy,
		Answers:   answerEntries(sum.Records),
	}
	if sum.ExercisesCompleted > 0 {
		act.LessonID = s.lessonID
	}

	next, changes := progress.Fold(current, act, progress.FoldOptions{
		Today:      clock.DateOf(now),
		Catalog:    s.cfg.Catalog,
		Curriculum: s.cfg.Curriculum,
	})

	if err := s.cfg.Store.SaveProgress(ctx, s.cfg.UserID, next, act); err != nil {
		s.logger.WithError(err).WithField("session_id", s.id).Error("save progress failed")
		return nil, fmt.Errorf("save progress: %w", err)
	}

	sum.Progress = next
	sum.Changes = changes
	s.phase = PhaseCompleted
	s.logEnd(sum)
	return sum, nil
}

// Abandon discards the active run without touching the store.
func (s *Session) Abandon() error {
	if s.phase != PhaseActive {
		return &StateError{Op: "abandon", Phase: s.phase}
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": s.id,
		"answered":   len(s.records),
	}).Info("session abandoned")

	s.exercises = nil
	s.records = nil
	s.index = 0
	s.totalXP = 0
	s.correct = 0
	s.incorrect = 0
	s.phase = PhaseIdle
	return nil
}

func (s *Session) summarize(now time.Time) *Summary {
	correct := 0
	for _, r := range s.records {
		if r.Correct {
			correct++
		}
	}

	// Unanswered exercises count against accuracy when a run ends early.
	var accuracy float64
	if len(s.exercises) > 0 {
		accuracy = float64(correct) / float64(len(s.exercises))
	}

	minutes := math.Round(now.Sub(s.startedAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	return &Summary{
		SessionID:          s.id,
		TotalXP:            s.totalXP,
		Accuracy:           accuracy,
		TimeSpentMinutes:   minutes,
		ExercisesCompleted: len(s.records),
		Correct:            correct,
		StartTier:          s.startTier,
		FinalTier:          s.tier,
		Records:            s.Records(),
	}
}

func answerEntries(recs []AnswerRecord) []progress.AnswerEntry {
	out := make([]progress.AnswerEntry, len(recs))
	for i, r := range recs {
		out[i] = progress.AnswerEntry{
			ExerciseID:  r.ExerciseID,
			Response:    r.Response,
			Expected:    r.Expected,
			Correct:     r.Correct,
			TimeSpentMs: r.TimeSpentMs,
			XP:          r.XP.Total,
		}
	}
	return out
}

func (s *Session) logEnd(sum *Summary) {
	log := s.logger.WithFields(logrus.Fields{
		"session_id": sum.SessionID,
		"user_id":    s.cfg.UserID,
	})
	log.WithFields(logrus.Fields{
		"xp":        sum.TotalXP,
		"accuracy":  sum.Accuracy,
		"exercises": sum.ExercisesCompleted,
		"minutes":   sum.TimeSpentMinutes,
	}).Info("session completed")

	c := sum.Changes
	if c.LeveledUp() {
		log.WithFields(logrus.Fields{"from": c.LevelBefore, "to": c.LevelAfter}).Info("level up")
	}
	if c.Streak.Broken {
		log.Info("streak broken")
	}
	if c.Streak.NewRecord {
		log.WithField("streak", c.Streak.Current).Info("new streak record")
	}
	for _, u := range c.Unlocked {
		log.WithFields(logrus.Fields{"achievement": u.ID, "reward": u.XPReward}).Info("achievement unlocked")
	}
}
