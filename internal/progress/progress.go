// Package progress holds the persistent learner progress record and folds
// finished activities into it.
package progress

import (
	"maps"
	"sort"
	"time"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/xp"
)

// LearnerProgress is one user's persistent progress. Level always equals
// xp.Level(TotalXP), LongestStreak is never below CurrentStreak, and the
// achievement and lesson sets only grow.
type LearnerProgress struct {
	TotalXP              int                          `json:"total_xp"`
	Level                int                          `json:"level"`
	CurrentStreak        int                          `json:"current_streak"`
	LongestStreak        int                          `json:"longest_streak"`
	LastActiveDate       clock.Date                   `json:"last_active_date"`
	ActivitiesCompleted  int                          `json:"activities_completed"`
	UnlockedAchievements map[string]bool              `json:"unlocked_achievements"`
	SkillStatus          map[string]curriculum.Status `json:"skill_status"`
	CompletedLessons     map[string]bool              `json:"completed_lessons"`
	UpdatedAt            time.Time                    `json:"updated_at"`
}

// New returns the progress of a learner who has never practiced.
func New() *LearnerProgress {
	return &LearnerProgress{
		Level:                1,
		UnlockedAchievements: make(map[string]bool),
		SkillStatus:          make(map[string]curriculum.Status),
		CompletedLessons:     make(map[string]bool),
	}
}

// Normalize repairs a record read from storage: nil sets become empty and
// Level is recomputed from TotalXP.
func (p *LearnerProgress) Normalize() {
	if p.UnlockedAchievements == nil {
		p.UnlockedAchievements = make(map[string]bool)
	}
	if p.SkillStatus == nil {
		p.SkillStatus = make(map[string]curriculum.Status)
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = make(map[string]bool)
	}
	if p.TotalXP < 0 {
		p.TotalXP = 0
	}
	p.Level = xp.Level(p.TotalXP)
	if p.LongestStreak < p.CurrentStreak {
		p.LongestStreak = p.CurrentStreak
	}
}

// Clone returns a deep copy.
func (p *LearnerProgress) Clone() *LearnerProgress {
	c := *p
	c.UnlockedAchievements = maps.Clone(p.UnlockedAchievements)
	c.SkillStatus = maps.Clone(p.SkillStatus)
	c.CompletedLessons = maps.Clone(p.CompletedLessons)
	c.Normalize()
	return &c
}

// AddXP is the single path through which XP accumulates. Non-positive amounts
// are ignored. Returns true if the level went up.
func (p *LearnerProgress) AddXP(amount int) bool {
	if amount <= 0 {
		return false
	}
	before := p.Level
	p.TotalXP += amount
	p.Level = xp.Level(p.TotalXP)
	return p.Level > before
}

// UnlockAchievement adds id to the unlocked set. Returns false if it was
// already there.
func (p *LearnerProgress) UnlockAchievement(id string) bool {
	if p.UnlockedAchievements[id] {
		return false
	}
	p.UnlockedAchievements[id] = true
	return true
}

// CompleteLesson adds id to the completed set. Returns false if it was
// already there.
func (p *LearnerProgress) CompleteLesson(id string) bool {
	if p.CompletedLessons[id] {
		return false
	}
	p.CompletedLessons[id] = true
	return true
}

// SetSkillStatus moves a node forward to s. Returns false, leaving the
// status untouched, if s would not advance it.
func (p *LearnerProgress) SetSkillStatus(nodeID string, s curriculum.Status) bool {
	cur := p.SkillStatus[nodeID]
	if cur == "" {
		cur = curriculum.StatusLocked
	}
	if !cur.Before(s) {
		return false
	}
	p.SkillStatus[nodeID] = s
	return true
}

// StatusOf returns the node's status, locked if unknown.
func (p *LearnerProgress) StatusOf(nodeID string) curriculum.Status {
	if s, ok := p.SkillStatus[nodeID]; ok {
		return s
	}
	return curriculum.StatusLocked
}

// Achievements returns the unlocked ids, sorted.
func (p *LearnerProgress) Achievements() []string {
	return sortedKeys(p.UnlockedAchievements)
}

// Lessons returns the completed lesson ids, sorted.
func (p *LearnerProgress) Lessons() []string {
	return sortedKeys(p.CompletedLessons)
}

// Snapshot returns the view the achievement rules evaluate.
func (p *LearnerProgress) Snapshot() achievement.Snapshot {
	return achievement.Snapshot{
		TotalXP:             p.TotalXP,
		Level:               p.Level,
		CurrentStreak:       p.CurrentStreak,
		LongestStreak:       p.LongestStreak,
		LessonsCompleted:    len(p.CompletedLessons),
		ActivitiesCompleted: p.ActivitiesCompleted,
		Unlocked:            p.UnlockedAchievements,
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, ok := range m {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
