package spacedrep

import (
	"errors"
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewItem_Defaults(t *testing.T) {
	item := NewItem("hola", t0)
	if item.EasinessFactor != 2.5 {
		t.Errorf("EasinessFactor = %v, want 2.5", item.EasinessFactor)
	}
	if item.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", item.IntervalDays)
	}
	if item.RepetitionCount != 0 {
		t.Errorf("RepetitionCount = %d, want 0", item.RepetitionCount)
	}
	if !item.NextReviewDate.Equal(t0) || !item.LastReviewedDate.Equal(t0) {
		t.Error("expected next and last review at creation time")
	}
}

func TestReview_PerfectThreeTimes(t *testing.T) {
	item := NewItem("hola", t0)
	now := t0

	steps := []struct {
		interval int
		ef       float64
	}{
		{1, 2.6},
		{6, 2.7},
		// grows with the post-update factor: round(6 * 2.8)
		{17, 2.8},
	}
	for i, want := range steps {
		var err error
		item, err = Review(item, QualityPerfect, now)
		if err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
		if item.IntervalDays != want.interval {
			t.Errorf("review %d: IntervalDays = %d, want %d", i, item.IntervalDays, want.interval)
		}
		if math.Abs(item.EasinessFactor-want.ef) > 1e-9 {
			t.Errorf("review %d: EasinessFactor = %v, want %v", i, item.EasinessFactor, want.ef)
		}
		if item.RepetitionCount != i+1 {
			t.Errorf("review %d: RepetitionCount = %d, want %d", i, item.RepetitionCount, i+1)
		}
		if !item.NextReviewDate.Equal(now.AddDate(0, 0, item.IntervalDays)) {
			t.Errorf("review %d: NextReviewDate = %v", i, item.NextReviewDate)
		}
		now = item.NextReviewDate
	}
}

func TestReview_FailureResets(t *testing.T) {
	item := NewItem("hola", t0)
	for i := 0; i < 4; i++ {
		item, _ = Review(item, QualityPerfect, t0)
	}
	if item.RepetitionCount != 4 {
		t.Fatalf("setup: RepetitionCount = %d", item.RepetitionCount)
	}

	failed, err := Review(item, QualityIncorrectFamiliar, t0)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if failed.RepetitionCount != 0 {
		t.Errorf("RepetitionCount = %d, want 0", failed.RepetitionCount)
	}
	if failed.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", failed.IntervalDays)
	}
	if failed.EasinessFactor >= item.EasinessFactor {
		t.Errorf("EasinessFactor should drop on failure: %v -> %v", item.EasinessFactor, failed.EasinessFactor)
	}
}

func TestReview_EasinessFloor(t *testing.T) {
	item := NewItem("hola", t0)
	for i := 0; i < 20; i++ {
		item, _ = Review(item, QualityBlackout, t0)
	}
	if item.EasinessFactor != MinEasinessFactor {
		t.Errorf("EasinessFactor = %v, want %v", item.EasinessFactor, MinEasinessFactor)
	}
}

func TestReview_EasinessDeltaByQuality(t *testing.T) {
	tests := []struct {
		q     Quality
		delta float64
	}{
		{5, 0.10},
		{4, 0.0},
		{3, -0.14},
		{2, -0.32},
		{1, -0.54},
		{0, -0.80},
	}
	for _, tt := range tests {
		got, err := Review(NewItem("x", t0), tt.q, t0)
		if err != nil {
			t.Fatalf("q=%d: %v", tt.q, err)
		}
		want := math.Max(1.3, 2.5+tt.delta)
		if math.Abs(got.EasinessFactor-want) > 1e-9 {
			t.Errorf("q=%d: EasinessFactor = %v, want %v", tt.q, got.EasinessFactor, want)
		}
	}
}

func TestReview_DoesNotMutateInput(t *testing.T) {
	item := NewItem("hola", t0)
	_, _ = Review(item, QualityPerfect, t0.Add(time.Hour))
	if item.RepetitionCount != 0 || item.EasinessFactor != 2.5 {
		t.Error("Review modified its input")
	}
}

func TestReview_RejectsOutOfRangeQuality(t *testing.T) {
	for _, q := range []Quality{-1, 6} {
		_, err := Review(NewItem("x", t0), q, t0)
		if !errors.Is(err, ErrQualityOutOfRange) {
			t.Errorf("q=%d err = %v, want ErrQualityOutOfRange", q, err)
		}
	}
}

func TestQualityFor(t *testing.T) {
	tests := []struct {
		correct bool
		ms      int64
		want    Quality
	}{
		{true, 3000, QualityPerfect},
		{true, 10000, QualityCorrectHesitation},
		{false, 1000, QualityIncorrect},
		{false, 30000, QualityIncorrect},
	}
	for _, tt := range tests {
		if got := QualityFor(tt.correct, tt.ms); got != tt.want {
			t.Errorf("QualityFor(%v, %d) = %d, want %d", tt.correct, tt.ms, got, tt.want)
		}
	}
}
