package spacedrep

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
)

// ReviewItem holds the SM-2 schedule for a single learnable fact.
type ReviewItem struct {
	ItemID           string    `json:"item_id"`
	ItemType         string    `json:"item_type,omitempty"`
	EasinessFactor   float64   `json:"easiness_factor"`
	IntervalDays     int       `json:"interval_days"`
	RepetitionCount  int       `json:"repetition_count"`
	NextReviewDate   time.Time `json:"next_review_date"`
	LastReviewedDate time.Time `json:"last_reviewed_date"`
}

// IsDue returns true if the item is due for review (at or past the review date).
func (ri *ReviewItem) IsDue(now time.Time) bool {
	return !now.Before(ri.NextReviewDate)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (ri *ReviewItem) OverdueDays(now time.Time) float64 {
	if now.Before(ri.NextReviewDate) {
		return 0
	}
	return now.Sub(ri.NextReviewDate).Hours() / 24.0
}

// DaysUntilReview returns the number of days until the next review, rounding
// partial days up. Returns 0 if already due.
func (ri *ReviewItem) DaysUntilReview(now time.Time) int {
	if ri.IsDue(now) {
		return 0
	}
	return int(math.Ceil(ri.NextReviewDate.Sub(now).Hours() / 24.0))
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
)

// Status returns the review status for display. An item is overdue once it
// has gone unreviewed for more than half of its interval past the due date.
func (ri *ReviewItem) Status(now time.Time) ReviewStatus {
	if !ri.IsDue(now) {
		return ReviewNotDue
	}
	graceHours := float64(ri.IntervalDays) * 0.5 * 24.0
	threshold := ri.NextReviewDate.Add(time.Duration(graceHours * float64(time.Hour)))
	if now.After(threshold) {
		return ReviewOverdue
	}
	return ReviewDue
}

// DueItems returns the items due at now, in input order.
// The result is never nil.
func DueItems(items []ReviewItem, now time.Time) []ReviewItem {
	due := lo.Filter(items, func(item ReviewItem, _ int) bool {
		return item.IsDue(now)
	})
	if due == nil {
		return []ReviewItem{}
	}
	return due
}

// MostOverdueFirst returns a copy of items ordered by how overdue they are,
// most overdue first, ties broken by item id.
func MostOverdueFirst(items []ReviewItem, now time.Time) []ReviewItem {
	sorted := make([]ReviewItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := sorted[i].OverdueDays(now), sorted[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})
	return sorted
}
