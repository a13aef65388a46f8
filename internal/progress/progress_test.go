package progress

import (
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	today   = clock.Date{Year: 2025, Month: time.March, Day: 10}
	started = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
)

func activity(xpEarned, exercises, correct int) Activity {
	acc := 0.0
	if exercises > 0 {
		acc = float64(correct) / float64(exercises)
	}
	return Activity{
		SessionID: "s1",
		StartedAt: started,
		EndedAt:   started.Add(6 * time.Minute),
		XP:        xpEarned,
		Exercises: exercises,
		Correct:   correct,
		Accuracy:  acc,
	}
}

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, 0, p.TotalXP)
	assert.Equal(t, 1, p.Level)
	assert.True(t, p.LastActiveDate.IsZero())
	assert.Empty(t, p.Achievements())
}

func TestAddXP(t *testing.T) {
	p := New()
	assert.False(t, p.AddXP(99))
	assert.Equal(t, 1, p.Level)
	assert.True(t, p.AddXP(1))
	assert.Equal(t, 2, p.Level)
	assert.False(t, p.AddXP(0))
	assert.False(t, p.AddXP(-50))
	assert.Equal(t, 100, p.TotalXP)
}

func TestSetSkillStatus_Monotonic(t *testing.T) {
	p := New()
	assert.True(t, p.SetSkillStatus("greetings", curriculum.StatusInProgress))
	assert.True(t, p.SetSkillStatus("greetings", curriculum.StatusMastered))
	assert.False(t, p.SetSkillStatus("greetings", curriculum.StatusInProgress))
	assert.False(t, p.SetSkillStatus("greetings", curriculum.StatusLocked))
	assert.Equal(t, curriculum.StatusMastered, p.StatusOf("greetings"))
	assert.Equal(t, curriculum.StatusLocked, p.StatusOf("travel"))
}

func TestSets_AppendOnly(t *testing.T) {
	p := New()
	assert.True(t, p.UnlockAchievement("first_steps"))
	assert.False(t, p.UnlockAchievement("first_steps"))
	assert.True(t, p.CompleteLesson("greetings-1"))
	assert.False(t, p.CompleteLesson("greetings-1"))
	assert.Equal(t, []string{"first_steps"}, p.Achievements())
	assert.Equal(t, []string{"greetings-1"}, p.Lessons())
}

func TestClone_Independent(t *testing.T) {
	p := New()
	p.UnlockAchievement("a")
	c := p.Clone()
	c.UnlockAchievement("b")
	c.AddXP(500)
	assert.Equal(t, []string{"a"}, p.Achievements())
	assert.Equal(t, 0, p.TotalXP)
}

func TestNormalize(t *testing.T) {
	p := &LearnerProgress{TotalXP: 250, Level: 9, CurrentStreak: 4, LongestStreak: 2}
	p.Normalize()
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 4, p.LongestStreak)
	assert.NotNil(t, p.UnlockedAchievements)
	assert.NotNil(t, p.CompletedLessons)
	assert.NotNil(t, p.SkillStatus)
}

func TestFold_FirstActivity(t *testing.T) {
	p := New()
	next, res := Fold(p, activity(138, 4, 3), FoldOptions{Today: today, Catalog: achievement.DefaultCatalog()})

	// 138 from the activity plus 10 from first_steps.
	assert.Equal(t, 148, next.TotalXP)
	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 138, res.ActivityXP)
	assert.Equal(t, 10, res.RewardXP)
	assert.True(t, res.LeveledUp())
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.LongestStreak)
	assert.False(t, res.Streak.Broken)
	assert.Equal(t, today, next.LastActiveDate)
	assert.Equal(t, 1, next.ActivitiesCompleted)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "first_steps", res.Unlocked[0].ID)
	assert.Equal(t, started.Add(6*time.Minute), next.UpdatedAt)

	// input untouched
	assert.Equal(t, 0, p.TotalXP)
	assert.Empty(t, p.Achievements())
}

func TestFold_SameDayTwiceKeepsStreak(t *testing.T) {
	opts := FoldOptions{Today: today, Catalog: achievement.DefaultCatalog()}
	p, _ := Fold(New(), activity(20, 1, 1), opts)
	p, res := Fold(p, activity(20, 1, 1), opts)

	assert.Equal(t, 1, p.CurrentStreak)
	assert.True(t, res.Streak.Maintained)
	assert.Equal(t, 2, p.ActivitiesCompleted)
	// perfectionist fired on the first fold, first_steps too; nothing new now.
	assert.Empty(t, res.Unlocked)
}

func TestFold_EmptyActivityChangesNothing(t *testing.T) {
	p := New()
	p.AddXP(40)
	next, res := Fold(p, activity(0, 0, 0), FoldOptions{Today: today, Catalog: achievement.DefaultCatalog()})
	assert.Equal(t, 40, next.TotalXP)
	assert.Equal(t, 0, next.ActivitiesCompleted)
	assert.True(t, next.LastActiveDate.IsZero())
	assert.Empty(t, res.Unlocked)
}

func TestFold_RewardChainsIntoThresholds(t *testing.T) {
	cat, err := achievement.NewCatalog([]achievement.Definition{
		{ID: "starter", Title: "Starter", Kind: achievement.KindFirstActivity, XPReward: 60},
		{ID: "century", Title: "Century", Kind: achievement.KindXP, Threshold: 100, XPReward: 5},
	})
	require.NoError(t, err)

	next, res := Fold(New(), activity(50, 2, 1), FoldOptions{Today: today, Catalog: cat})
	require.Len(t, res.Unlocked, 2)
	assert.Equal(t, "starter", res.Unlocked[0].ID)
	assert.Equal(t, "century", res.Unlocked[1].ID)
	assert.Equal(t, 115, next.TotalXP)
	assert.Equal(t, 65, res.RewardXP)
}

func TestFold_StreakRunsBeforeAchievements(t *testing.T) {
	p := New()
	p.CurrentStreak = 6
	p.LongestStreak = 6
	p.ActivitiesCompleted = 9
	p.LastActiveDate = today.AddDays(-1)

	next, res := Fold(p, activity(20, 2, 1), FoldOptions{Today: today, Catalog: achievement.DefaultCatalog()})
	assert.Equal(t, 7, next.CurrentStreak)
	assert.True(t, res.Streak.NewRecord)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "on_fire", res.Unlocked[0].ID)
}

func TestFold_LessonAndSkillStatus(t *testing.T) {
	g := curriculum.Default()
	p := New()
	p.CompleteLesson("greetings-1")
	p.SkillStatus["greetings"] = curriculum.StatusInProgress

	a := activity(30, 3, 3)
	a.LessonID = "greetings-2"
	next, res := Fold(p, a, FoldOptions{Today: today, Curriculum: g})

	assert.True(t, res.LessonCompleted)
	assert.Equal(t, map[string]curriculum.Status{"greetings": curriculum.StatusMastered}, res.SkillChanges)
	assert.Equal(t, curriculum.StatusMastered, next.StatusOf("greetings"))
	assert.Equal(t, curriculum.StatusLocked, next.StatusOf("introductions"))
}

func TestFold_LessonCountSeenByAchievements(t *testing.T) {
	p := New()
	for i := 0; i < 9; i++ {
		p.CompleteLesson(string(rune('a' + i)))
	}
	p.ActivitiesCompleted = 9

	a := activity(10, 1, 0)
	a.LessonID = "tenth"
	_, res := Fold(p, a, FoldOptions{Today: today, Catalog: achievement.DefaultCatalog()})
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "dedicated", res.Unlocked[0].ID)
}

func TestActivity_Minutes(t *testing.T) {
	assert.InDelta(t, 6.0, activity(0, 1, 1).Minutes(), 1e-9)
	a := Activity{StartedAt: started, EndedAt: started.Add(-time.Minute)}
	assert.Equal(t, 0.0, a.Minutes())
}

func TestRemainingToday(t *testing.T) {
	assert.Equal(t, DailyGoal, RemainingToday(0))
	assert.Equal(t, 3, RemainingToday(2))
	assert.Equal(t, 0, RemainingToday(DailyGoal))
	assert.Equal(t, 0, RemainingToday(9))
	assert.Equal(t, DailyGoal, RemainingToday(-1))
}
