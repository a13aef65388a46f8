package store

import "strings"

// schema is applied in order on Open. Statements stick to the SQL subset
// shared by SQLite and Postgres. Timestamps are RFC 3339 text in UTC and
// calendar days are YYYY-MM-DD text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS learner_progress (
		user_id              TEXT PRIMARY KEY,
		total_xp             INTEGER NOT NULL DEFAULT 0,
		level                INTEGER NOT NULL DEFAULT 1,
		current_streak       INTEGER NOT NULL DEFAULT 0,
		longest_streak       INTEGER NOT NULL DEFAULT 0,
		last_active_date     TEXT NOT NULL DEFAULT '',
		activities_completed INTEGER NOT NULL DEFAULT 0,
		updated_at           TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS unlocked_achievements (
		user_id        TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		unlocked_at    TEXT NOT NULL,
		PRIMARY KEY (user_id, achievement_id)
	)`,
	`CREATE TABLE IF NOT EXISTS completed_lessons (
		user_id      TEXT NOT NULL,
		lesson_id    TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (user_id, lesson_id)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_status (
		user_id    TEXT NOT NULL,
		node_id    TEXT NOT NULL,
		status     TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, node_id)
	)`,
	`CREATE TABLE IF NOT EXISTS review_items (
		user_id          TEXT NOT NULL,
		item_id          TEXT NOT NULL,
		item_type        TEXT NOT NULL DEFAULT '',
		easiness_factor  DOUBLE PRECISION NOT NULL,
		interval_days    INTEGER NOT NULL,
		repetition_count INTEGER NOT NULL,
		next_review_at   TEXT NOT NULL,
		last_reviewed_at TEXT NOT NULL,
		PRIMARY KEY (user_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS session_log (
		session_id TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		lesson_id  TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		ended_at   TEXT NOT NULL,
		xp         INTEGER NOT NULL,
		exercises  INTEGER NOT NULL,
		correct    INTEGER NOT NULL,
		accuracy   DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_log_user_ended ON session_log (user_id, ended_at)`,
	`CREATE TABLE IF NOT EXISTS session_answers (
		session_id     TEXT NOT NULL,
		seq            INTEGER NOT NULL,
		user_id        TEXT NOT NULL,
		exercise_id    TEXT NOT NULL,
		user_answer    TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		is_correct     BOOLEAN NOT NULL,
		time_spent_ms  BIGINT NOT NULL,
		xp_earned      INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_activity (
		user_id   TEXT NOT NULL,
		day       TEXT NOT NULL,
		minutes   DOUBLE PRECISION NOT NULL DEFAULT 0,
		xp        INTEGER NOT NULL DEFAULT 0,
		exercises INTEGER NOT NULL DEFAULT 0,
		sessions  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day)
	)`,
}

// userTables lists every table keyed by user_id, children first.
var userTables = []string{
	"daily_activity",
	"session_answers",
	"session_log",
	"review_items",
	"skill_status",
	"completed_lessons",
	"unlocked_achievements",
	"learner_progress",
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return strings.TrimSpace(strings.TrimSuffix(line, "("))
}
