package achievement

import (
	"errors"
	"testing"

	"github.com/abhisek/lingua/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(unlocks []Unlock) []string {
	out := make([]string, 0, len(unlocks))
	for _, u := range unlocks {
		out = append(out, u.ID)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Len(t, c.Definitions(), 6)

	d, ok := c.Lookup("on_fire")
	require.True(t, ok)
	assert.Equal(t, KindStreak, d.Kind)
	assert.Equal(t, 7, d.Threshold)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestEvaluate_DefaultRules(t *testing.T) {
	c := DefaultCatalog()
	activity := Event{Type: EventActivityCompleted, Accuracy: 0.75, Exercises: 4}

	tests := []struct {
		name string
		snap Snapshot
		ev   Event
		want []string
	}{
		{
			name: "first activity",
			snap: Snapshot{TotalXP: 138, Level: 2, CurrentStreak: 1, ActivitiesCompleted: 1},
			ev:   activity,
			want: []string{"first_steps"},
		},
		{
			name: "second activity earns nothing",
			snap: Snapshot{TotalXP: 200, Level: 3, CurrentStreak: 1, ActivitiesCompleted: 2},
			ev:   activity,
			want: []string{},
		},
		{
			name: "perfect activity",
			snap: Snapshot{Level: 1, ActivitiesCompleted: 3},
			ev:   Event{Type: EventActivityCompleted, Accuracy: 1, Exercises: 5},
			want: []string{"perfectionist"},
		},
		{
			name: "perfect with no exercises does not count",
			snap: Snapshot{Level: 1, ActivitiesCompleted: 3},
			ev:   Event{Type: EventActivityCompleted, Accuracy: 1, Exercises: 0},
			want: []string{},
		},
		{
			name: "thresholds",
			snap: Snapshot{TotalXP: 1000, Level: 11, CurrentStreak: 7, LessonsCompleted: 10, ActivitiesCompleted: 40},
			ev:   Event{Type: EventStreakUpdated},
			want: []string{"on_fire", "scholar", "dedicated", "rising_star"},
		},
		{
			name: "first-activity needs an activity event",
			snap: Snapshot{Level: 1, ActivitiesCompleted: 1},
			ev:   Event{Type: EventLevelReached},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Evaluate(tt.snap, tt.ev)))
		})
	}
}

func TestEvaluate_SkipsUnlocked(t *testing.T) {
	c := DefaultCatalog()
	snap := Snapshot{TotalXP: 1500, Level: 16, CurrentStreak: 8, ActivitiesCompleted: 1}
	ev := Event{Type: EventActivityCompleted, Accuracy: 1, Exercises: 3}

	first := c.Evaluate(snap, ev)
	require.NotEmpty(t, first)

	snap.Unlocked = make(map[string]bool)
	for _, u := range first {
		snap.Unlocked[u.ID] = true
	}
	assert.Empty(t, c.Evaluate(snap, ev))
}

func TestEvaluate_ExprRule(t *testing.T) {
	c, err := NewCatalog([]Definition{
		{ID: "marathon", Title: "Marathon", Kind: KindExpr, Expr: `event == "activity-completed" && exercises >= 20 && accuracy >= 0.9`, XPReward: 40},
		{ID: "comeback", Title: "Comeback", Kind: KindExpr, Expr: `longest_streak >= 10 && current_streak == 1`},
	})
	require.NoError(t, err)

	got := c.Evaluate(Snapshot{LongestStreak: 12, CurrentStreak: 1}, Event{Type: EventActivityCompleted, Accuracy: 0.95, Exercises: 20})
	assert.Equal(t, []string{"marathon", "comeback"}, ids(got))
	assert.Equal(t, 40, got[0].XPReward)
	assert.Equal(t, RarityCommon, got[0].Rarity)

	got = c.Evaluate(Snapshot{LongestStreak: 3, CurrentStreak: 1}, Event{Type: EventActivityCompleted, Accuracy: 0.5, Exercises: 20})
	assert.Empty(t, got)
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty id", []Definition{{Kind: KindXP}}},
		{"duplicate", []Definition{{ID: "a", Kind: KindXP}, {ID: "a", Kind: KindLevel}}},
		{"unknown kind", []Definition{{ID: "a", Kind: "mystery"}}},
		{"negative reward", []Definition{{ID: "a", Kind: KindXP, XPReward: -1}}},
		{"bad expr", []Definition{{ID: "a", Kind: KindExpr, Expr: "total_xp >="}}},
		{"non-bool expr", []Definition{{ID: "a", Kind: KindExpr, Expr: "total_xp + 1"}}},
		{"unknown variable", []Definition{{ID: "a", Kind: KindExpr, Expr: "gems > 3"}}},
		{"missing expr", []Definition{{ID: "a", Kind: KindExpr}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.defs)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(`{"achievements":[
		{"id":"century","title":"Century","kind":"xp","threshold":100,"xp_reward":5,"rarity":"rare"},
		{"id":"busy","title":"Busy","kind":"expr","expr":"activities_completed >= 3"}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"century", "busy"}, ids(c.Evaluate(Snapshot{TotalXP: 120, ActivitiesCompleted: 3}, Event{})))

	_, err = ParseCatalog([]byte(`{"achievements":[{"id":"x","title":"X","kind":"bogus"}]}`))
	var invErr *validate.ErrInvalidDocument
	assert.True(t, errors.As(err, &invErr), "got %v", err)

	_, err = ParseCatalog([]byte(`{"achievements":[{"id":"x","title":"X","kind":"xp","rarity":"mythic"}]}`))
	assert.Error(t, err)
}

func TestRarity_DisplayName(t *testing.T) {
	assert.Equal(t, "Legendary", RarityLegendary.DisplayName())
	assert.Equal(t, "odd", Rarity("odd").DisplayName())
}
