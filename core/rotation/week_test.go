package rotation

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		// week 1 is always Jan 1-7, regardless of weekday alignment
		{name: "jan 1", date: date(2025, time.January, 1), want: 1},
		{name: "jan 7", date: date(2025, time.January, 7), want: 1},
		// 2025: Jan 8 is a Wednesday; the first Monday is Jan 13.
		// Days in between still belong to week 1.
		{name: "jan 8 before first monday", date: date(2025, time.January, 8), want: 1},
		{name: "jan 12 before first monday", date: date(2025, time.January, 12), want: 1},
		{name: "first monday starts week 2", date: date(2025, time.January, 13), want: 2},
		{name: "sunday ends week 2", date: date(2025, time.January, 19), want: 2},
		{name: "week 3 monday", date: date(2025, time.January, 20), want: 3},
		{name: "week 3 wednesday", date: date(2025, time.January, 22), want: 3},
		// 2024: Jan 8 is itself a Monday, so week 2 starts right away
		{name: "jan 8 on a monday", date: date(2024, time.January, 8), want: 2},
		{name: "mid september", date: date(2025, time.September, 17), want: 37},
		{name: "week 38 monday", date: date(2025, time.September, 22), want: 38},
		// year-end: the last week absorbs the remainder of the year
		{name: "last monday of 2025", date: date(2025, time.December, 29), want: 52},
		{name: "dec 31 2025", date: date(2025, time.December, 31), want: 52},
		// years aligned like 2024 overflow to 53; rolling over is the caller's job
		{name: "dec 30 2024 overflows", date: date(2024, time.December, 30), want: 53},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekNumber(tt.date); got != tt.want {
				t.Errorf("WeekNumber(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWeekNumber_monotonicWithinYear(t *testing.T) {
	for _, year := range []int{2023, 2024, 2025, 2026} {
		prev := 1
		for d := date(year, time.January, 8); d.Year() == year; d = d.AddDate(0, 0, 1) {
			got := WeekNumber(d)
			if got < prev {
				t.Fatalf("WeekNumber went backwards at %s: %d -> %d", d.Format("2006-01-02"), prev, got)
			}
			prev = got
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		year, week int
		want       time.Time
	}{
		{2025, 1, date(2025, time.January, 1)},
		{2025, 2, date(2025, time.January, 13)},
		{2025, 3, date(2025, time.January, 20)},
		{2025, 37, date(2025, time.September, 15)},
		{2025, 38, date(2025, time.September, 22)},
		{2024, 2, date(2024, time.January, 8)},
	}
	for _, tt := range tests {
		if got := WeekStart(tt.year, tt.week, time.UTC); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%d, %d) = %s, want %s",
				tt.year, tt.week, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}
