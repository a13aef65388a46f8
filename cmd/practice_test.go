package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/exercise"
	"github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/spacedrep"
	"github.com/abhisek/lingua/internal/store"
)

func practiceDeck() []exercise.Exercise {
	return []exercise.Exercise{
		{ID: "g1", Type: exercise.TypeTranslate, Prompt: "hello", Answer: "hola", Tier: 1, LessonID: "greetings-1"},
		{ID: "g2", Type: exercise.TypeTranslate, Prompt: "goodbye", Answer: "adiós", Alternates: []string{"adios"}, Tier: 1, LessonID: "greetings-1"},
		{ID: "g3", Type: exercise.TypeMultipleChoice, Prompt: "thank you", Answer: "gracias", Choices: []string{"por favor", "gracias"}, Tier: 1, LessonID: "greetings-1"},
	}
}

func newPracticeRig(t *testing.T) (*store.Store, *session.Session, *spacedrep.Scheduler) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sess := session.New(session.Config{
		UserID:     "maria",
		Store:      st,
		Catalog:    achievement.DefaultCatalog(),
		Curriculum: curriculum.Default(),
	})
	return st, sess, spacedrep.NewScheduler(st, nil, nil)
}

func TestRunPractice_FullDeck(t *testing.T) {
	st, sess, sched := newPracticeRig(t)
	ctx := context.Background()

	var out bytes.Buffer
	in := strings.NewReader("Hola\nadios\n1\n")
	err := runPractice(ctx, practiceIO{in: in, out: &out}, "maria", sess, sched,
		practiceDeck(), session.StartOptions{DefaultTier: 1, LessonID: "greetings-1"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "[1/3] (Beginner) hello")
	assert.Contains(t, text, "  2. gracias")
	assert.Equal(t, 2, strings.Count(text, "Correct!"))
	assert.Contains(t, text, "Not quite. Expected: gracias")
	assert.Contains(t, text, "Answered:  3 (2 correct, 67%)")
	assert.Contains(t, text, "Achievement unlocked: First Steps")
	assert.Contains(t, text, "Lesson complete.")
	assert.Contains(t, text, "Skill greetings: In progress")

	p, err := st.LoadProgress(ctx, "maria")
	require.NoError(t, err)
	assert.True(t, p.CompletedLessons["greetings-1"])
	assert.Equal(t, 1, p.ActivitiesCompleted)
	assert.Greater(t, p.TotalXP, 10)

	items, err := st.ListReviewItems(ctx, "maria")
	require.NoError(t, err)
	require.Len(t, items, 3)
	byID := make(map[string]spacedrep.ReviewItem)
	for _, it := range items {
		byID[it.ItemID] = it
	}
	assert.Equal(t, 1, byID["g1"].RepetitionCount)
	assert.Equal(t, "translate", byID["g1"].ItemType)
	assert.Equal(t, 0, byID["g3"].RepetitionCount)
	assert.Equal(t, "multiple-choice", byID["g3"].ItemType)
}

func TestRunPractice_EndsEarlyOnEOF(t *testing.T) {
	st, sess, sched := newPracticeRig(t)
	ctx := context.Background()

	var out bytes.Buffer
	err := runPractice(ctx, practiceIO{in: strings.NewReader("hola\n"), out: &out}, "maria", sess, sched,
		practiceDeck(), session.StartOptions{DefaultTier: 1})
	require.NoError(t, err)
	// Unanswered exercises count against accuracy.
	assert.Contains(t, out.String(), "Answered:  1 (1 correct, 33%)")
	assert.NotContains(t, out.String(), "Perfectionist")
	assert.Equal(t, session.PhaseCompleted, sess.Phase())

	items, err := st.ListReviewItems(ctx, "maria")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRunPractice_NothingAnswered(t *testing.T) {
	st, sess, sched := newPracticeRig(t)
	ctx := context.Background()

	var out bytes.Buffer
	err := runPractice(ctx, practiceIO{in: strings.NewReader(""), out: &out}, "maria", sess, sched,
		practiceDeck(), session.StartOptions{DefaultTier: 1, LessonID: "greetings-1"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Nothing answered, progress unchanged.")

	p, err := st.LoadProgress(ctx, "maria")
	require.NoError(t, err)
	assert.Zero(t, p.TotalXP)
	assert.Empty(t, p.CompletedLessons)
}

// answerClock returns the queued times in order, one per call to Now.
type answerClock struct {
	times []time.Time
}

func (c *answerClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func TestRunPractice_AnswerTimingDrivesRewards(t *testing.T) {
	st, sess, sched := newPracticeRig(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	clk := &answerClock{times: []time.Time{
		base, base.Add(3 * time.Second), // g1 answered in 3s
		base.Add(3 * time.Second), base.Add(15 * time.Second), // g2 answered in 12s
	}}

	var out bytes.Buffer
	deck := practiceDeck()[:2]
	err := runPractice(ctx, practiceIO{in: strings.NewReader("hola\nadios\n"), out: &out, clock: clk}, "maria", sess, sched,
		deck, session.StartOptions{DefaultTier: 1})
	require.NoError(t, err)

	// Tier 1: base 10, accuracy 5, speed 2 under ten seconds, streak 1 on the second answer.
	text := out.String()
	assert.Contains(t, text, "Correct! +17 XP")
	assert.Contains(t, text, "Correct! +16 XP")

	answers, err := st.SessionAnswers(ctx, "maria", sess.ID())
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.EqualValues(t, 3000, answers[0].TimeSpentMs)
	assert.EqualValues(t, 12000, answers[1].TimeSpentMs)
	assert.Equal(t, "adiós", answers[1].CorrectAnswer)

	fast, err := st.LoadReviewItem(ctx, "maria", "g1")
	require.NoError(t, err)
	slow, err := st.LoadReviewItem(ctx, "maria", "g2")
	require.NoError(t, err)
	// Quality 5 raises the ease factor, quality 4 leaves it at 2.5.
	assert.InDelta(t, 2.6, fast.EasinessFactor, 1e-9)
	assert.InDelta(t, 2.5, slow.EasinessFactor, 1e-9)
}

func TestRunPractice_BadTier(t *testing.T) {
	_, sess, sched := newPracticeRig(t)

	err := runPractice(context.Background(), practiceIO{in: strings.NewReader(""), out: &bytes.Buffer{}}, "maria", sess, sched,
		nil, session.StartOptions{DefaultTier: 9})
	assert.Error(t, err)
}
