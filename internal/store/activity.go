package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/jmoiron/sqlx"
)

// DailyActivity aggregates one user's practice on one calendar day.
type DailyActivity struct {
	Day       clock.Date
	Minutes   float64
	XP        int
	Exercises int
	Sessions  int
}

// SessionLogEntry is one finished session.
type SessionLogEntry struct {
	SessionID string
	LessonID  string
	StartedAt time.Time
	EndedAt   time.Time
	XP        int
	Exercises int
	Correct   int
	Accuracy  float64
}

// AnswerLogEntry is one answer recorded within a session.
type AnswerLogEntry struct {
	ExerciseID    string `db:"exercise_id"`
	UserAnswer    string `db:"user_answer"`
	CorrectAnswer string `db:"correct_answer"`
	IsCorrect     bool   `db:"is_correct"`
	TimeSpentMs   int64  `db:"time_spent_ms"`
	XPEarned      int    `db:"xp_earned"`
}

type dailyRow struct {
	Day       string  `db:"day"`
	Minutes   float64 `db:"minutes"`
	XP        int     `db:"xp"`
	Exercises int     `db:"exercises"`
	Sessions  int     `db:"sessions"`
}

type sessionRow struct {
	SessionID string  `db:"session_id"`
	LessonID  string  `db:"lesson_id"`
	StartedAt string  `db:"started_at"`
	EndedAt   string  `db:"ended_at"`
	XP        int     `db:"xp"`
	Exercises int     `db:"exercises"`
	Correct   int     `db:"correct"`
	Accuracy  float64 `db:"accuracy"`
}

func logActivity(ctx context.Context, tx *sqlx.Tx, userID string, a progress.Activity) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO session_log
			(session_id, user_id, lesson_id, started_at, ended_at, xp, exercises, correct, accuracy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.SessionID, userID, a.LessonID, formatTime(a.StartedAt), formatTime(a.EndedAt),
		a.XP, a.Exercises, a.Correct, a.Accuracy)
	if err != nil {
		return fmt.Errorf("log session: %w", err)
	}

	for i, ans := range a.Answers {
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO session_answers
				(session_id, seq, user_id, exercise_id, user_answer, correct_answer, is_correct, time_spent_ms, xp_earned)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			a.SessionID, i, userID, ans.ExerciseID, ans.Response, ans.Expected, ans.Correct, ans.TimeSpentMs, ans.XP)
		if err != nil {
			return fmt.Errorf("log answer %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO daily_activity (user_id, day, minutes, xp, exercises, sessions)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT (user_id, day) DO UPDATE SET
			minutes = daily_activity.minutes + excluded.minutes,
			xp = daily_activity.xp + excluded.xp,
			exercises = daily_activity.exercises + excluded.exercises,
			sessions = daily_activity.sessions + 1`),
		userID, clock.DateOf(a.EndedAt).String(), a.Minutes(), a.XP, a.Exercises)
	if err != nil {
		return fmt.Errorf("update daily activity: %w", err)
	}
	return nil
}

// DailyActivitySince returns the user's per-day totals from since onward,
// oldest first. Days without practice are omitted.
func (s *Store) DailyActivitySince(ctx context.Context, userID string, since clock.Date) ([]DailyActivity, error) {
	var rows []dailyRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT day, minutes, xp, exercises, sessions
		FROM daily_activity
		WHERE user_id = ? AND day >= ?
		ORDER BY day`), userID, since.String())
	if err != nil {
		return nil, fmt.Errorf("query daily activity: %w", err)
	}

	out := make([]DailyActivity, 0, len(rows))
	for _, r := range rows {
		day, err := clock.ParseDate(r.Day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", r.Day, err)
		}
		out = append(out, DailyActivity{Day: day, Minutes: r.Minutes, XP: r.XP, Exercises: r.Exercises, Sessions: r.Sessions})
	}
	return out, nil
}

// RecentSessions returns up to limit finished sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, userID string, limit int) ([]SessionLogEntry, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT session_id, lesson_id, started_at, ended_at, xp, exercises, correct, accuracy
		FROM session_log
		WHERE user_id = ?
		ORDER BY ended_at DESC
		LIMIT ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	out := make([]SessionLogEntry, 0, len(rows))
	for _, r := range rows {
		started, err := parseTime(r.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		ended, err := parseTime(r.EndedAt)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		out = append(out, SessionLogEntry{
			SessionID: r.SessionID,
			LessonID:  r.LessonID,
			StartedAt: started,
			EndedAt:   ended,
			XP:        r.XP,
			Exercises: r.Exercises,
			Correct:   r.Correct,
			Accuracy:  r.Accuracy,
		})
	}
	return out, nil
}

// SessionAnswers returns the answers logged for one of the user's sessions,
// in the order they were given.
func (s *Store) SessionAnswers(ctx context.Context, userID, sessionID string) ([]AnswerLogEntry, error) {
	var rows []AnswerLogEntry
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT exercise_id, user_answer, correct_answer, is_correct, time_spent_ms, xp_earned
		FROM session_answers
		WHERE user_id = ? AND session_id = ?
		ORDER BY seq`), userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session answers: %w", err)
	}
	return rows, nil
}

// OverallAccuracy averages the accuracy of every logged session, rounded to
// four places. It is 0 before the first session.
func (s *Store) OverallAccuracy(ctx context.Context, userID string) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.GetContext(ctx, &avg, s.db.Rebind(`
		SELECT AVG(accuracy) FROM session_log WHERE user_id = ?`), userID)
	if err != nil {
		return 0, fmt.Errorf("query accuracy: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return math.Round(avg.Float64*10000) / 10000, nil
}

// SessionsOn returns how many sessions the user logged on day.
func (s *Store) SessionsOn(ctx context.Context, userID string, day clock.Date) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`
		SELECT COALESCE(SUM(sessions), 0) FROM daily_activity WHERE user_id = ? AND day = ?`),
		userID, day.String())
	if err != nil {
		return 0, fmt.Errorf("query sessions on %s: %w", day, err)
	}
	return n, nil
}
