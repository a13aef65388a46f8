package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/progress"
)

type progressRow struct {
	UserID              string `db:"user_id"`
	TotalXP             int    `db:"total_xp"`
	Level               int    `db:"level"`
	CurrentStreak       int    `db:"current_streak"`
	LongestStreak       int    `db:"longest_streak"`
	LastActiveDate      string `db:"last_active_date"`
	ActivitiesCompleted int    `db:"activities_completed"`
	UpdatedAt           string `db:"updated_at"`
}

type skillStatusRow struct {
	NodeID string `db:"node_id"`
	Status string `db:"status"`
}

// LoadProgress returns the user's progress, or a fresh record if the user
// has never saved any.
func (s *Store) LoadProgress(ctx context.Context, userID string) (*progress.LearnerProgress, error) {
	var row progressRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`
		SELECT user_id, total_xp, level, current_streak, longest_streak,
		       last_active_date, activities_completed, updated_at
		FROM learner_progress WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	p := progress.New()
	p.TotalXP = row.TotalXP
	p.CurrentStreak = row.CurrentStreak
	p.LongestStreak = row.LongestStreak
	p.ActivitiesCompleted = row.ActivitiesCompleted
	if p.LastActiveDate, err = clock.ParseDate(row.LastActiveDate); err != nil {
		return nil, fmt.Errorf("parse last active date: %w", err)
	}
	if p.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	var achievements []string
	if err := s.db.SelectContext(ctx, &achievements, s.db.Rebind(
		`SELECT achievement_id FROM unlocked_achievements WHERE user_id = ?`), userID); err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	for _, id := range achievements {
		p.UnlockedAchievements[id] = true
	}

	var lessons []string
	if err := s.db.SelectContext(ctx, &lessons, s.db.Rebind(
		`SELECT lesson_id FROM completed_lessons WHERE user_id = ?`), userID); err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	for _, id := range lessons {
		p.CompletedLessons[id] = true
	}

	var statuses []skillStatusRow
	if err := s.db.SelectContext(ctx, &statuses, s.db.Rebind(
		`SELECT node_id, status FROM skill_status WHERE user_id = ?`), userID); err != nil {
		return nil, fmt.Errorf("query skill status: %w", err)
	}
	for _, st := range statuses {
		p.SkillStatus[st.NodeID] = curriculum.Status(st.Status)
	}

	p.Normalize()
	return p, nil
}

// SaveProgress writes p and logs a (non-empty) activity in one transaction.
// Sets only grow, so rows are inserted and never deleted.
func (s *Store) SaveProgress(ctx context.Context, userID string, p *progress.LearnerProgress, a progress.Activity) error {
	stamp := p.UpdatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	ts := formatTime(stamp)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO learner_progress
			(user_id, total_xp, level, current_streak, longest_streak, last_active_date, activities_completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			level = excluded.level,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_active_date = excluded.last_active_date,
			activities_completed = excluded.activities_completed,
			updated_at = excluded.updated_at`),
		userID, p.TotalXP, p.Level, p.CurrentStreak, p.LongestStreak,
		p.LastActiveDate.String(), p.ActivitiesCompleted, ts)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	for _, id := range p.Achievements() {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO unlocked_achievements (user_id, achievement_id, unlocked_at)
			VALUES (?, ?, ?) ON CONFLICT (user_id, achievement_id) DO NOTHING`),
			userID, id, ts); err != nil {
			return fmt.Errorf("save achievement %q: %w", id, err)
		}
	}

	for _, id := range p.Lessons() {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO completed_lessons (user_id, lesson_id, completed_at)
			VALUES (?, ?, ?) ON CONFLICT (user_id, lesson_id) DO NOTHING`),
			userID, id, ts); err != nil {
			return fmt.Errorf("save lesson %q: %w", id, err)
		}
	}

	for nodeID, status := range p.SkillStatus {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO skill_status (user_id, node_id, status, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, node_id) DO UPDATE SET
				status = excluded.status,
				updated_at = excluded.updated_at
			WHERE skill_status.status <> excluded.status`),
			userID, nodeID, string(status), ts); err != nil {
			return fmt.Errorf("save skill status %q: %w", nodeID, err)
		}
	}

	if a.Counts() && a.SessionID != "" {
		if err := logActivity(ctx, tx, userID, a); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
