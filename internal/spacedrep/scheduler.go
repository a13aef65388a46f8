package spacedrep

import (
	"context"
	"fmt"

	"github.com/abhisek/lingua/internal/clock"
	"github.com/abhisek/lingua/internal/logging"
	"github.com/sirupsen/logrus"
)

// ItemStore persists review schedules per user.
type ItemStore interface {
	// LoadReviewItem returns the stored item, or nil if none exists.
	LoadReviewItem(ctx context.Context, userID, itemID string) (*ReviewItem, error)
	SaveReviewItem(ctx context.Context, userID string, item *ReviewItem) error
	ListReviewItems(ctx context.Context, userID string) ([]ReviewItem, error)
}

// Scheduler answers reviews against a store. Each Answer is a single
// read-then-write; store errors are returned as-is without retries.
type Scheduler struct {
	store  ItemStore
	clock  clock.Clock
	logger logrus.FieldLogger
}

// NewScheduler creates a scheduler. A nil clock uses the system clock and a
// nil logger discards output.
func NewScheduler(store ItemStore, clk clock.Clock, logger logrus.FieldLogger) *Scheduler {
	if clk == nil {
		clk = clock.System{}
	}
	return &Scheduler{store: store, clock: clk, logger: logging.OrDiscard(logger)}
}

// Answer records a graded review for itemID, creating the item on first
// exposure, and returns the updated schedule.
func (s *Scheduler) Answer(ctx context.Context, userID, itemID string, q Quality) (*ReviewItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	item, err := s.store.LoadReviewItem(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("load review item %q: %w", itemID, err)
	}
	if item == nil {
		fresh := NewItem(itemID, now)
		item = &fresh
	}

	updated, err := Review(*item, q, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveReviewItem(ctx, userID, &updated); err != nil {
		s.logger.WithError(err).WithField("item_id", itemID).Error("save review item failed")
		return nil, fmt.Errorf("save review item %q: %w", itemID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":  itemID,
		"quality":  int(q),
		"interval": updated.IntervalDays,
		"ef":       updated.EasinessFactor,
	}).Debug("review recorded")
	return &updated, nil
}

// Track creates the schedule for a newly seen fact if none exists yet.
func (s *Scheduler) Track(ctx context.Context, userID, itemID, itemType string) (*ReviewItem, error) {
	item, err := s.store.LoadReviewItem(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("load review item %q: %w", itemID, err)
	}
	if item != nil {
		return item, nil
	}
	fresh := NewItem(itemID, s.clock.Now())
	fresh.ItemType = itemType
	if err := s.store.SaveReviewItem(ctx, userID, &fresh); err != nil {
		return nil, fmt.Errorf("save review item %q: %w", itemID, err)
	}
	return &fresh, nil
}

// Due returns the user's items that are due now, in store order.
func (s *Scheduler) Due(ctx context.Context, userID string) ([]ReviewItem, error) {
	items, err := s.store.ListReviewItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list review items: %w", err)
	}
	return DueItems(items, s.clock.Now()), nil
}
