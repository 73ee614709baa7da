package rotation

import (
	"testing"
	"time"
)

func TestPeriodRange(t *testing.T) {
	tests := []struct {
		name       string
		period     string
		wantStart  time.Time
		wantEnd    time.Time
		wantString string
	}{
		{
			name:       "week 1 fixed range",
			period:     "2025-W01",
			wantStart:  date(2025, time.January, 1),
			wantEnd:    date(2025, time.January, 7),
			wantString: "1. 1. - 7. 1. 2025.",
		},
		{
			name:       "regular week",
			period:     "2025-W03",
			wantStart:  date(2025, time.January, 20),
			wantEnd:    date(2025, time.January, 26),
			wantString: "20. 1. - 26. 1. 2025.",
		},
		{
			name:      "final week clamped to dec 31",
			period:    "2025-W52",
			wantStart: date(2025, time.December, 29),
			wantEnd:   date(2025, time.December, 31),
		},
		{
			name:      "first biweek",
			period:    "2025-BW01",
			wantStart: date(2025, time.January, 1),
			wantEnd:   date(2025, time.January, 14),
		},
		{
			name:      "regular biweek spans weeks 5 and 6",
			period:    "2025-BW03",
			wantStart: date(2025, time.February, 3),
			wantEnd:   date(2025, time.February, 16),
		},
		{
			name:      "biweek half-step bridges from week 38",
			period:    "2025-BW19.5",
			wantStart: date(2025, time.September, 22),
			wantEnd:   date(2025, time.October, 5),
		},
		{
			name:       "calendar month",
			period:     "2025-M02",
			wantStart:  date(2025, time.February, 1),
			wantEnd:    date(2025, time.February, 28),
			wantString: "1. 2. - 28. 2. 2025.",
		},
		{
			name:      "leap february",
			period:    "2024-M02",
			wantStart: date(2024, time.February, 1),
			wantEnd:   date(2024, time.February, 29),
		},
		{
			name:      "month half-step is 30 days from week 38 monday",
			period:    "2025-M09.5",
			wantStart: date(2025, time.September, 22),
			wantEnd:   date(2025, time.October, 22),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ParsePeriod(tt.period)
			if !ok {
				t.Fatalf("ParsePeriod(%q) failed", tt.period)
			}
			r := PeriodRange(p, time.UTC)
			if !r.Start.Equal(tt.wantStart) {
				t.Errorf("start = %s, want %s", r.Start.Format("2006-01-02"), tt.wantStart.Format("2006-01-02"))
			}
			if !r.End.Equal(tt.wantEnd) {
				t.Errorf("end = %s, want %s", r.End.Format("2006-01-02"), tt.wantEnd.Format("2006-01-02"))
			}
			if tt.wantString != "" && r.String() != tt.wantString {
				t.Errorf("String() = %q, want %q", r.String(), tt.wantString)
			}
		})
	}
}

func TestFormatPeriod_malformedFallsBack(t *testing.T) {
	for _, s := range []string{"gibberish", "2025-X07", ""} {
		if got := FormatPeriod(s, time.UTC); got != s {
			t.Errorf("FormatPeriod(%q) = %q, want the input back", s, got)
		}
	}
}

func TestDateRange_Contains(t *testing.T) {
	p, _ := ParsePeriod("2025-W03") // Jan 20-26
	r := PeriodRange(p, time.UTC)

	if !r.Contains(date(2025, time.January, 20)) {
		t.Error("start day should be contained")
	}
	if !r.Contains(time.Date(2025, time.January, 26, 23, 45, 0, 0, time.UTC)) {
		t.Error("end day should be contained regardless of clock time")
	}
	if r.Contains(date(2025, time.January, 27)) {
		t.Error("day after end should not be contained")
	}
}

func TestInFinalDays(t *testing.T) {
	p, _ := ParsePeriod("2025-W03") // ends Sunday Jan 26
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "mid period", now: date(2025, time.January, 21), want: false},
		{name: "window opens", now: date(2025, time.January, 23), want: true},
		{name: "last day", now: date(2025, time.January, 26), want: true},
		{name: "period over", now: date(2025, time.January, 27), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InFinalDays(p, tt.now, 3); got != tt.want {
				t.Errorf("InFinalDays(%s) = %v, want %v", tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
