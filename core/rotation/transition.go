package rotation

import "time"

// transitionWeek is a fixed historical exception inherited from the original
// rotation data: a frequency change requested during week 37 (mid-September)
// takes effect at an irregular half-step period aligned with the 15th-of-month
// boundary, rather than at the next clean ordinal.
const transitionWeek = 37

// NextPeriodFromTransition computes the first period, in the new cadence's own
// numbering, at which a requested frequency change takes effect. The period is
// chosen to start no earlier than the end of the period currently in effect,
// so an in-flight period finishes under the old cadence.
//
// The result is stored verbatim as the pending-from period; the change is
// applied once CurrentPeriod(newFreq, now) reaches it.
func NextPeriodFromTransition(currentFreq, newFreq Frequency, now time.Time) Period {
	currentFreq.mustBeValid()
	newFreq.mustBeValid()

	if newFreq == currentFreq {
		return CurrentPeriod(currentFreq, now)
	}

	year := now.Year()
	switch newFreq {
	case Weekly:
		next := WeekNumber(now) + 1
		if next > maxOrdinal(Weekly) {
			return Period{Year: year + 1, Freq: Weekly, Ordinal: 1}
		}
		return Period{Year: year, Freq: Weekly, Ordinal: next}

	case Biweekly:
		week := WeekNumber(now)
		if week == transitionWeek {
			// BW19.5: bridges from week 38.
			return Period{Year: year, Freq: Biweekly, Ordinal: (transitionWeek + 1) / 2, Half: true}
		}
		current := (week + 1) / 2
		next := (week + 2) / 2 // biweek holding next week
		if next <= current {
			next = current + 1
		}
		if next > maxOrdinal(Biweekly) {
			return Period{Year: year + 1, Freq: Biweekly, Ordinal: 1}
		}
		return Period{Year: year, Freq: Biweekly, Ordinal: next}

	default: // Monthly
		if WeekNumber(now) == transitionWeek {
			// M09.5: September's second half, starting at week 38's Monday.
			return Period{Year: year, Freq: Monthly, Ordinal: int(time.September), Half: true}
		}
		next := int(now.Month()) + 1
		if next > maxOrdinal(Monthly) {
			return Period{Year: year + 1, Freq: Monthly, Ordinal: 1}
		}
		return Period{Year: year, Freq: Monthly, Ordinal: next}
	}
}
