package streak

import (
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/clock"
	"github.com/stretchr/testify/assert"
)

var today = clock.Date{Year: 2025, Month: time.March, Day: 10}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name string
		in   State
		want Result
	}{
		{
			name: "same day unchanged",
			in:   State{LastActiveDate: today, Current: 4, Longest: 9},
			want: Result{Current: 4, Longest: 9, Maintained: true},
		},
		{
			name: "yesterday extends",
			in:   State{LastActiveDate: today.AddDays(-1), Current: 6, Longest: 6},
			want: Result{Current: 7, Longest: 7, Maintained: true, NewRecord: true},
		},
		{
			name: "yesterday extends below record",
			in:   State{LastActiveDate: today.AddDays(-1), Current: 2, Longest: 10},
			want: Result{Current: 3, Longest: 10, Maintained: true},
		},
		{
			name: "gap breaks",
			in:   State{LastActiveDate: today.AddDays(-2), Current: 5, Longest: 8},
			want: Result{Current: 1, Longest: 8, Broken: true},
		},
		{
			name: "first ever activity is not a break",
			in:   State{},
			want: Result{Current: 1, Longest: 1, NewRecord: true},
		},
		{
			name: "gap with no streak is not a break",
			in:   State{LastActiveDate: today.AddDays(-30), Current: 0, Longest: 3},
			want: Result{Current: 1, Longest: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Update(tt.in, today))
		})
	}
}

func TestUpdate_SameDayIdempotent(t *testing.T) {
	first := Update(State{LastActiveDate: today.AddDays(-1), Current: 2, Longest: 5}, today)
	second := Update(State{LastActiveDate: today, Current: first.Current, Longest: first.Longest}, today)

	assert.True(t, second.Maintained)
	assert.Equal(t, first.Current, second.Current)
	assert.Equal(t, first.Longest, second.Longest)
	assert.False(t, second.NewRecord)
}

func TestUpdate_AcrossMonthBoundary(t *testing.T) {
	first := clock.Date{Year: 2025, Month: time.March, Day: 1}
	r := Update(State{LastActiveDate: clock.Date{Year: 2025, Month: time.February, Day: 28}, Current: 1, Longest: 1}, first)
	assert.Equal(t, 2, r.Current)
}

func TestUpdate_LongestNeverBelowCurrent(t *testing.T) {
	for cur := 0; cur < 20; cur++ {
		for longest := cur; longest < 25; longest++ {
			for gap := 0; gap < 4; gap++ {
				r := Update(State{LastActiveDate: today.AddDays(-gap), Current: cur, Longest: longest}, today)
				if r.Longest < r.Current {
					t.Fatalf("cur=%d longest=%d gap=%d: Longest %d < Current %d", cur, longest, gap, r.Longest, r.Current)
				}
			}
		}
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		days int
		want Band
	}{
		{0, BandBeginner},
		{6, BandBeginner},
		{7, BandIntermediate},
		{14, BandAdvanced},
		{30, BandExpert},
		{100, BandMaster},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.days).Band; got != tt.want {
			t.Errorf("StatusOf(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}
