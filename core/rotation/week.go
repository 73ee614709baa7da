package rotation

import "time"

// The calendar here is NOT ISO-8601. Week 1 is always the fixed range
// January 1-7; every following week runs Monday through Sunday, anchored at
// the first Monday on or after January 8. The final week of the year absorbs
// the remainder up to December 31, so it may be shorter (or the days between
// the last full week and year-end longer) than 7 days.

// midnight truncates t to its civil date.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// firstMonday returns the first Monday on or after January 8, i.e. the start
// of week 2.
func firstMonday(year int, loc *time.Location) time.Time {
	jan8 := time.Date(year, time.January, 8, 0, 0, 0, 0, loc)
	offset := (int(time.Monday) - int(jan8.Weekday()) + 7) % 7
	return jan8.AddDate(0, 0, offset)
}

// WeekNumber maps a date to its 1-based week number within its year.
// Days after January 7 but before the first Monday still belong to week 1.
// The function never rolls into the following year; ordinals above 52 are the
// caller's responsibility when advancing periods.
func WeekNumber(date time.Time) int {
	day := midnight(date)
	year := day.Year()

	jan7 := time.Date(year, time.January, 7, 0, 0, 0, 0, day.Location())
	if !day.After(jan7) {
		return 1
	}

	days := int(day.Sub(firstMonday(year, day.Location())).Hours() / 24)
	weeks := days / 7
	if days < 0 && days%7 != 0 { // floor, not truncate
		weeks--
	}
	return 2 + weeks
}

// WeekStart returns the first day of the given week under the custom
// numbering: January 1 for week 1, the anchored Monday otherwise.
func WeekStart(year, week int, loc *time.Location) time.Time {
	if week <= 1 {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	}
	return firstMonday(year, loc).AddDate(0, 0, (week-2)*7)
}

// weekRange returns the start and end days of a week, with the end clamped to
// December 31 when the week would spill into the next year.
func weekRange(year, week int, loc *time.Location) (time.Time, time.Time) {
	if week <= 1 {
		return WeekStart(year, 1, loc), time.Date(year, time.January, 7, 0, 0, 0, 0, loc)
	}
	start := WeekStart(year, week, loc)
	end := start.AddDate(0, 0, 6)
	if end.Year() > year {
		end = time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	}
	return start, end
}
