package achievement

// EventType names what triggered an evaluation.
type EventType string

const (
	EventActivityCompleted EventType = "activity-completed"
	EventStreakUpdated     EventType = "streak-updated"
	EventLevelReached      EventType = "level-reached"
)

// Event is the trigger passed to Evaluate.
type Event struct {
	Type      EventType
	Accuracy  float64 // activity-completed only
	Exercises int     // activity-completed only
}

// Snapshot is the slice of learner progress the rules read.
type Snapshot struct {
	TotalXP             int
	Level               int
	CurrentStreak       int
	LongestStreak       int
	LessonsCompleted    int
	ActivitiesCompleted int
	Unlocked            map[string]bool
}

// Unlock is a newly earned achievement.
type Unlock struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
	Rarity   Rarity `json:"rarity"`
}

// Evaluate returns the achievements whose rules hold for s and ev, in catalog
// order. Ids already in s.Unlocked are never returned, so evaluating the same
// event against an updated snapshot yields nothing new.
func (c *Catalog) Evaluate(s Snapshot, ev Event) []Unlock {
	var unlocks []Unlock
	for _, d := range c.defs {
		if s.Unlocked[d.ID] {
			continue
		}
		if !c.met(d, s, ev) {
			continue
		}
		unlocks = append(unlocks, Unlock{ID: d.ID, Title: d.Title, XPReward: d.XPReward, Rarity: d.Rarity})
	}
	return unlocks
}

func (c *Catalog) met(d Definition, s Snapshot, ev Event) bool {
	switch d.Kind {
	case KindXP:
		return s.TotalXP >= d.Threshold
	case KindLevel:
		return s.Level >= d.Threshold
	case KindStreak:
		return s.CurrentStreak >= d.Threshold
	case KindLessons:
		return s.LessonsCompleted >= d.Threshold
	case KindFirstActivity:
		return ev.Type == EventActivityCompleted && s.ActivitiesCompleted == 1
	case KindPerfectActivity:
		return ev.Type == EventActivityCompleted && ev.Exercises > 0 && ev.Accuracy >= 1
	case KindExpr:
		prg, ok := c.programs[d.ID]
		return ok && evalRule(prg, s, ev)
	default:
		return false
	}
}
