package spacedrep

import (
	"testing"
	"time"
)

func itemDueAt(id string, at time.Time) ReviewItem {
	return ReviewItem{ItemID: id, EasinessFactor: 2.5, IntervalDays: 2, NextReviewDate: at}
}

func TestDueItems_FiltersAndPreservesOrder(t *testing.T) {
	now := t0
	items := []ReviewItem{
		itemDueAt("c", now.Add(-time.Hour)),
		itemDueAt("a", now.Add(time.Hour)),
		itemDueAt("b", now),
		itemDueAt("d", now.AddDate(0, 0, -3)),
	}

	due := DueItems(items, now)
	want := []string{"c", "b", "d"}
	if len(due) != len(want) {
		t.Fatalf("len(due) = %d, want %d", len(due), len(want))
	}
	for i, id := range want {
		if due[i].ItemID != id {
			t.Errorf("due[%d] = %s, want %s", i, due[i].ItemID, id)
		}
	}
}

func TestDueItems_Empty(t *testing.T) {
	due := DueItems(nil, t0)
	if due == nil || len(due) != 0 {
		t.Errorf("DueItems(nil) = %#v, want empty non-nil", due)
	}
	due = DueItems([]ReviewItem{itemDueAt("a", t0.Add(time.Minute))}, t0)
	if len(due) != 0 {
		t.Errorf("expected no due items, got %d", len(due))
	}
}

func TestStatus(t *testing.T) {
	item := itemDueAt("a", t0) // interval 2 days, grace 1 day
	tests := []struct {
		now  time.Time
		want ReviewStatus
	}{
		{t0.Add(-time.Hour), ReviewNotDue},
		{t0, ReviewDue},
		{t0.Add(23 * time.Hour), ReviewDue},
		{t0.Add(25 * time.Hour), ReviewOverdue},
	}
	for _, tt := range tests {
		if got := item.Status(tt.now); got != tt.want {
			t.Errorf("Status(%v) = %s, want %s", tt.now, got, tt.want)
		}
	}
}

func TestDaysUntilReview(t *testing.T) {
	item := itemDueAt("a", t0.AddDate(0, 0, 3))
	if got := item.DaysUntilReview(t0); got != 3 {
		t.Errorf("DaysUntilReview = %d, want 3", got)
	}
	if got := item.DaysUntilReview(t0.AddDate(0, 0, 4)); got != 0 {
		t.Errorf("DaysUntilReview past due = %d, want 0", got)
	}
}

func TestMostOverdueFirst(t *testing.T) {
	items := []ReviewItem{
		itemDueAt("b", t0.AddDate(0, 0, -1)),
		itemDueAt("a", t0.AddDate(0, 0, -1)),
		itemDueAt("c", t0.AddDate(0, 0, -5)),
	}
	got := MostOverdueFirst(items, t0)
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if got[i].ItemID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ItemID, id)
		}
	}
	if items[0].ItemID != "b" {
		t.Error("MostOverdueFirst reordered its input")
	}
}
