package progress

import (
	"time"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/streak"
)

// Activity is one finished practice session as the progress record sees it.
type Activity struct {
	SessionID string
	LessonID  string
	StartedAt time.Time
	EndedAt   time.Time
	XP        int
	Exercises int
	Correct   int
	Accuracy  float64
	Answers   []AnswerEntry
}

// AnswerEntry is one scored answer within an activity.
type AnswerEntry struct {
	ExerciseID  string
	Response    string
	Expected    string
	Correct     bool
	TimeSpentMs int64
	XP          int
}

// Counts reports whether the activity had at least one answer. Folding an
// activity that does not count leaves progress unchanged.
func (a Activity) Counts() bool {
	return a.Exercises > 0
}

// Minutes returns the wall time spent, never negative.
func (a Activity) Minutes() float64 {
	d := a.EndedAt.Sub(a.StartedAt)
	if d < 0 {
		return 0
	}
	return d.Minutes()
}

// FoldOptions carries the collaborators a fold consults. A nil Catalog skips
// achievements and a nil Curriculum skips skill status derivation.
type FoldOptions struct {
	Today      clock.Date
	Catalog    *achievement.Catalog
	Curriculum *curriculum.Graph
}

// FoldResult describes what a fold changed.
type FoldResult struct {
	ActivityXP      int
	RewardXP        int
	LevelBefore     int
	LevelAfter      int
	Streak          streak.Result
	LessonCompleted bool
	SkillChanges    map[string]curriculum.Status
	Unlocked        []achievement.Unlock
}

// LeveledUp reports whether the fold raised the level.
func (r FoldResult) LeveledUp() bool {
	return r.LevelAfter > r.LevelBefore
}

// Fold applies a finished activity to p and returns the updated copy; p is
// not modified. The order is fixed: XP and level, then streak, then lessons
// and skill status, then achievements. Achievement rewards are added through
// AddXP and rules are re-evaluated until nothing new unlocks, so a reward can
// itself cross an XP or level threshold.
func Fold(p *LearnerProgress, a Activity, opts FoldOptions) (*LearnerProgress, FoldResult) {
	next := p.Clone()
	res := FoldResult{LevelBefore: next.Level}

	if !a.Counts() {
		res.LevelAfter = next.Level
		return next, res
	}

	next.AddXP(a.XP)
	res.ActivityXP = max(a.XP, 0)

	sr := streak.Update(streak.State{
		LastActiveDate: next.LastActiveDate,
		Current:        next.CurrentStreak,
		Longest:        next.LongestStreak,
	}, opts.Today)
	next.CurrentStreak = sr.Current
	next.LongestStreak = sr.Longest
	next.LastActiveDate = opts.Today
	next.ActivitiesCompleted++
	res.Streak = sr

	if a.LessonID != "" {
		res.LessonCompleted = next.CompleteLesson(a.LessonID)
	}
	if opts.Curriculum != nil {
		for nodeID, s := range opts.Curriculum.Derive(next.CompletedLessons, next.SkillStatus) {
			if next.SetSkillStatus(nodeID, s) {
				if res.SkillChanges == nil {
					res.SkillChanges = make(map[string]curriculum.Status)
				}
				res.SkillChanges[nodeID] = s
			}
		}
	}

	if opts.Catalog != nil {
		ev := achievement.Event{
			Type:      achievement.EventActivityCompleted,
			Accuracy:  a.Accuracy,
			Exercises: a.Exercises,
		}
		for {
			unlocks := opts.Catalog.Evaluate(next.Snapshot(), ev)
			if len(unlocks) == 0 {
				break
			}
			for _, u := range unlocks {
				if next.UnlockAchievement(u.ID) {
					next.AddXP(u.XPReward)
					res.RewardXP += u.XPReward
					res.Unlocked = append(res.Unlocked, u)
				}
			}
		}
	}

	if !a.EndedAt.IsZero() {
		next.UpdatedAt = a.EndedAt
	}
	res.LevelAfter = next.Level
	return next, res
}
