package rotation

import (
	"testing"
	"time"
)

func TestNextPeriodFromTransition(t *testing.T) {
	tests := []struct {
		name        string
		currentFreq Frequency
		newFreq     Frequency
		now         time.Time
		want        string
	}{
		{
			name:        "same frequency keeps current period",
			currentFreq: Weekly, newFreq: Weekly,
			now:  date(2025, time.January, 22),
			want: "2025-W03",
		},
		{
			name:        "to weekly starts next week",
			currentFreq: Monthly, newFreq: Weekly,
			now:  date(2025, time.January, 22),
			want: "2025-W04",
		},
		{
			name:        "to weekly rolls the year",
			currentFreq: Monthly, newFreq: Weekly,
			now:  date(2025, time.December, 30), // week 52
			want: "2026-W01",
		},
		{
			name:        "to biweekly from an odd week",
			currentFreq: Weekly, newFreq: Biweekly,
			now:  date(2025, time.March, 12), // week 10, biweek 5
			want: "2025-BW06",
		},
		{
			name:        "to biweekly skips the biweek already in effect",
			currentFreq: Weekly, newFreq: Biweekly,
			now:  date(2025, time.March, 19), // week 11, biweek 6 holds week 12 too
			want: "2025-BW07",
		},
		{
			name:        "to biweekly in week 37 yields the half-step",
			currentFreq: Weekly, newFreq: Biweekly,
			now:  date(2025, time.September, 17),
			want: "2025-BW19.5",
		},
		{
			name:        "to monthly starts next month",
			currentFreq: Weekly, newFreq: Monthly,
			now:  date(2025, time.January, 22),
			want: "2025-M02",
		},
		{
			name:        "to monthly rolls the year",
			currentFreq: Weekly, newFreq: Monthly,
			now:  date(2025, time.December, 10),
			want: "2026-M01",
		},
		{
			name:        "to monthly in week 37 yields the half-step",
			currentFreq: Weekly, newFreq: Monthly,
			now:  date(2025, time.September, 17),
			want: "2025-M09.5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPeriodFromTransition(tt.currentFreq, tt.newFreq, tt.now)
			if got.String() != tt.want {
				t.Errorf("NextPeriodFromTransition(%s, %s, %s) = %s, want %s",
					tt.currentFreq, tt.newFreq, tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

// the half-step produced in week 37 must format as a 30-day span starting at
// week 38's Monday anchor
func TestNextPeriodFromTransition_halfStepRange(t *testing.T) {
	now := date(2025, time.September, 17)
	p := NextPeriodFromTransition(Weekly, Monthly, now)
	r := PeriodRange(p, time.UTC)

	wantStart := WeekStart(2025, 38, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %s, want week 38 monday %s", r.Start.Format("2006-01-02"), wantStart.Format("2006-01-02"))
	}
	if got := int(r.End.Sub(r.Start).Hours() / 24); got != 30 {
		t.Errorf("span = %d days, want 30", got)
	}
}
