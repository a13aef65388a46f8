package curriculum

// Status is a learner's standing on a skill node. It only ever moves forward:
// locked, then in-progress, then mastered.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in-progress"
	StatusMastered   Status = "mastered"
)

func (s Status) rank() int {
	switch s {
	case StatusInProgress:
		return 1
	case StatusMastered:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusLocked, StatusInProgress, StatusMastered:
		return true
	}
	return false
}

// Before reports whether s precedes other in the lifecycle.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusInProgress:
		return "In progress"
	case StatusMastered:
		return "Mastered"
	default:
		return "Unknown"
	}
}
