package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhisek/lingua/internal/spacedrep"
)

type reviewRow struct {
	ItemID          string  `db:"item_id"`
	ItemType        string  `db:"item_type"`
	EasinessFactor  float64 `db:"easiness_factor"`
	IntervalDays    int     `db:"interval_days"`
	RepetitionCount int     `db:"repetition_count"`
	NextReviewAt    string  `db:"next_review_at"`
	LastReviewedAt  string  `db:"last_reviewed_at"`
}

func (r reviewRow) item() (spacedrep.ReviewItem, error) {
	next, err := parseTime(r.NextReviewAt)
	if err != nil {
		return spacedrep.ReviewItem{}, fmt.Errorf("parse next_review_at for %q: %w", r.ItemID, err)
	}
	last, err := parseTime(r.LastReviewedAt)
	if err != nil {
		return spacedrep.ReviewItem{}, fmt.Errorf("parse last_reviewed_at for %q: %w", r.ItemID, err)
	}
	return spacedrep.ReviewItem{
		ItemID:           r.ItemID,
		ItemType:         r.ItemType,
		EasinessFactor:   r.EasinessFactor,
		IntervalDays:     r.IntervalDays,
		RepetitionCount:  r.RepetitionCount,
		NextReviewDate:   next,
		LastReviewedDate: last,
	}, nil
}

const reviewColumns = `item_id, item_type, easiness_factor, interval_days, repetition_count, next_review_at, last_reviewed_at`

// LoadReviewItem returns the stored schedule, or nil if the item has never
// been seen.
func (s *Store) LoadReviewItem(ctx context.Context, userID, itemID string) (*spacedrep.ReviewItem, error) {
	var row reviewRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(
		`SELECT `+reviewColumns+` FROM review_items WHERE user_id = ? AND item_id = ?`), userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query review item: %w", err)
	}
	item, err := row.item()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveReviewItem inserts or replaces the item's schedule.
func (s *Store) SaveReviewItem(ctx context.Context, userID string, item *spacedrep.ReviewItem) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO review_items
			(user_id, `+reviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			item_type = CASE WHEN excluded.item_type = '' THEN review_items.item_type ELSE excluded.item_type END,
			easiness_factor = excluded.easiness_factor,
			interval_days = excluded.interval_days,
			repetition_count = excluded.repetition_count,
			next_review_at = excluded.next_review_at,
			last_reviewed_at = excluded.last_reviewed_at`),
		userID, item.ItemID, item.ItemType, item.EasinessFactor, item.IntervalDays,
		item.RepetitionCount, formatTime(item.NextReviewDate), formatTime(item.LastReviewedDate))
	if err != nil {
		return fmt.Errorf("save review item: %w", err)
	}
	return nil
}

// ListReviewItems returns all of the user's schedules ordered by next review.
func (s *Store) ListReviewItems(ctx context.Context, userID string) ([]spacedrep.ReviewItem, error) {
	var rows []reviewRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		`SELECT `+reviewColumns+` FROM review_items WHERE user_id = ? ORDER BY next_review_at, item_id`), userID)
	if err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}

	items := make([]spacedrep.ReviewItem, 0, len(rows))
	for _, r := range rows {
		item, err := r.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
