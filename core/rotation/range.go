package rotation

import (
	"fmt"
	"time"
)

// DateRange is the inclusive calendar span a period covers. Start and End are
// midnights of the first and last day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range the way the UI displays it: "d. m. - d. m. yyyy."
func (r DateRange) String() string {
	return fmt.Sprintf("%d. %d. - %d. %d. %d.",
		r.Start.Day(), int(r.Start.Month()),
		r.End.Day(), int(r.End.Month()), r.End.Year())
}

// Contains reports whether the instant falls on one of the range's days.
func (r DateRange) Contains(t time.Time) bool {
	day := midnight(t)
	return !day.Before(r.Start) && !day.After(r.End)
}

// PeriodRange computes the exact calendar boundaries of a period. These
// boundaries drive "has this period ended" and late-completion checks, so
// they are not a presentation concern.
func PeriodRange(p Period, loc *time.Location) DateRange {
	switch p.Freq {
	case Weekly:
		start, end := weekRange(p.Year, p.Ordinal, loc)
		return DateRange{Start: start, End: end}

	case Biweekly:
		// A biweek starts at its first week's Monday anchor and spans 14
		// days. The half-step variant bridges from one week later.
		startWeek := (p.Ordinal-1)*2 + 1
		if p.Half {
			startWeek = p.Ordinal * 2
		}
		start := WeekStart(p.Year, startWeek, loc)
		return DateRange{Start: start, End: start.AddDate(0, 0, 13)}

	case Monthly:
		if p.Half {
			// An irregular mid-month transition period: starts at the Monday
			// anchor of the month's mid-September-style boundary week and
			// spans 30 days (e.g. M09.5 -> week 38).
			start := WeekStart(p.Year, monthlyHalfStartWeek(p.Ordinal), loc)
			return DateRange{Start: start, End: start.AddDate(0, 0, 30)}
		}
		start := time.Date(p.Year, time.Month(p.Ordinal), 1, 0, 0, 0, 0, loc)
		end := time.Date(p.Year, time.Month(p.Ordinal+1), 0, 0, 0, 0, 0, loc)
		return DateRange{Start: start, End: end}
	}
	p.Freq.mustBeValid()
	return DateRange{}
}

// monthlyHalfStartWeek maps a half-step month ordinal to the week whose
// Monday anchor opens it. Generalizes the source data's single known case
// (September, M09.5 -> week 38) as 4 weeks per elapsed month plus the two
// leading half-weeks of January.
func monthlyHalfStartWeek(month int) int {
	return 4*month + 2
}

// FormatPeriod renders a period identifier as a date range string, falling
// back to the raw identifier when it cannot be parsed.
func FormatPeriod(period string, loc *time.Location) string {
	p, ok := ParsePeriod(period)
	if !ok {
		return period
	}
	return PeriodRange(p, loc).String()
}

// InFinalDays reports whether now falls within the last `days` days of the
// period (inclusive of the end day). The UI uses this to prompt the
// responsible room while a completion still counts.
func InFinalDays(p Period, now time.Time, days int) bool {
	r := PeriodRange(p, now.Location())
	day := midnight(now)
	return !day.Before(r.End.AddDate(0, 0, -days)) && !day.After(r.End)
}
