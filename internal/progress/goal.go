package progress

// DailyGoal is the number of sessions a learner aims to finish each day.
const DailyGoal = 5

// RemainingToday returns how many sessions are left before the daily goal
// is met, never negative.
func RemainingToday(sessionsToday int) int {
	return max(0, DailyGoal-sessionsToday)
}
