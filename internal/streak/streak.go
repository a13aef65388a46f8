package streak

import "github.com/abhisek/lingua/internal/clock"

// State is the streak portion of a learner's progress.
type State struct {
	LastActiveDate clock.Date
	Current        int
	Longest        int
}

// Result is the outcome of recording activity on a given day.
type Result struct {
	Current    int
	Longest    int
	Maintained bool
	Broken     bool
	NewRecord  bool
}

// Update records activity on today and returns the new streak values.
//
// Days are compared by calendar date. Activity on the same day as the last
// activity leaves the streak unchanged, so repeated calls on one day are
// idempotent. Activity on the following day extends the streak. Any longer
// gap, or no prior activity at all, starts a new streak of 1; that counts as
// broken only when there was a streak to lose.
func Update(s State, today clock.Date) Result {
	var r Result

	switch {
	case !s.LastActiveDate.IsZero() && s.LastActiveDate.Equal(today):
		r.Current = s.Current
		r.Maintained = true
	case !s.LastActiveDate.IsZero() && s.LastActiveDate.Equal(today.AddDays(-1)):
		r.Current = s.Current + 1
		r.Maintained = true
	default:
		r.Current = 1
		r.Broken = s.Current > 0
	}

	r.Longest = max(s.Longest, r.Current)
	r.NewRecord = r.Current > s.Longest
	return r
}

// Band is a named streak milestone for display.
type Band string

const (
	BandBeginner     Band = "beginner"
	BandIntermediate Band = "intermediate"
	BandAdvanced     Band = "advanced"
	BandExpert       Band = "expert"
	BandMaster       Band = "master"
)

// Status describes a streak length for display.
type Status struct {
	Band    Band
	Message string
}

// StatusOf maps a streak length to its display band.
func StatusOf(days int) Status {
	switch {
	case days >= 100:
		return Status{Band: BandMaster, Message: "Legendary streak!"}
	case days >= 30:
		return Status{Band: BandExpert, Message: "On fire!"}
	case days >= 14:
		return Status{Band: BandAdvanced, Message: "Crushing it!"}
	case days >= 7:
		return Status{Band: BandIntermediate, Message: "Building momentum!"}
	default:
		return Status{Band: BandBeginner, Message: "Keep going!"}
	}
}
