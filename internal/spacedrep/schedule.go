package spacedrep

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/lingua/internal/xp"
)

const (
	// DefaultEasinessFactor is the easiness factor of a never-reviewed item.
	DefaultEasinessFactor = 2.5

	// MinEasinessFactor is the floor the easiness factor never drops below.
	MinEasinessFactor = 1.3

	// PassQuality is the lowest quality that counts as a successful recall.
	PassQuality = 3

	// FirstIntervalDays and SecondIntervalDays are the fixed intervals for the
	// first two successful repetitions. Later intervals grow by the easiness factor.
	FirstIntervalDays  = 1
	SecondIntervalDays = 6
)

// Quality grades recall of a reviewed item, 0 through 5.
type Quality int

const (
	QualityBlackout          Quality = 0 // No recall at all
	QualityIncorrect         Quality = 1 // Wrong, but recognized the answer
	QualityIncorrectFamiliar Quality = 2 // Wrong, but the answer felt familiar
	QualityCorrectDifficult  Quality = 3 // Right with significant effort
	QualityCorrectHesitation Quality = 4 // Right after some hesitation
	QualityPerfect           Quality = 5 // Right with no hesitation
)

// ErrQualityOutOfRange is returned for a quality outside 0..5.
var ErrQualityOutOfRange = errors.New("review quality out of range")

// Validate returns ErrQualityOutOfRange for grades outside 0..5.
func (q Quality) Validate() error {
	if q < QualityBlackout || q > QualityPerfect {
		return fmt.Errorf("%w: %d", ErrQualityOutOfRange, int(q))
	}
	return nil
}

// NewItem creates the schedule for a fact seen for the first time. It is due immediately.
func NewItem(itemID string, now time.Time) ReviewItem {
	return ReviewItem{
		ItemID:           itemID,
		EasinessFactor:   DefaultEasinessFactor,
		IntervalDays:     FirstIntervalDays,
		RepetitionCount:  0,
		NextReviewDate:   now,
		LastReviewedDate: now,
	}
}

// Review applies one graded review to item and returns the updated schedule.
// The input item is not modified.
//
// A failed recall (quality below PassQuality) resets the repetition count and
// interval. A successful recall advances the count and grows the interval;
// from the third success on, growth uses the easiness factor as already
// updated by this review.
func Review(item ReviewItem, q Quality, now time.Time) (ReviewItem, error) {
	if err := q.Validate(); err != nil {
		return ReviewItem{}, err
	}

	miss := float64(QualityPerfect - q)
	item.EasinessFactor = math.Max(MinEasinessFactor, item.EasinessFactor+(0.1-miss*(0.08+miss*0.02)))

	if q < PassQuality {
		item.RepetitionCount = 0
		item.IntervalDays = FirstIntervalDays
	} else {
		switch item.RepetitionCount {
		case 0:
			item.IntervalDays = FirstIntervalDays
		case 1:
			item.IntervalDays = SecondIntervalDays
		default:
			item.IntervalDays = int(math.Round(float64(item.IntervalDays) * item.EasinessFactor))
		}
		item.RepetitionCount++
	}

	item.LastReviewedDate = now
	item.NextReviewDate = now.AddDate(0, 0, item.IntervalDays)
	return item, nil
}

// QualityFor grades a practice answer for review scheduling: a fast correct
// answer is perfect recall, a slow one is recall with hesitation, and a
// wrong one is a failed recall.
func QualityFor(correct bool, timeSpentMs int64) Quality {
	switch {
	case !correct:
		return QualityIncorrect
	case timeSpentMs < xp.SpeedThresholdMs:
		return QualityPerfect
	default:
		return QualityCorrectHesitation
	}
}
