package rotation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Period identifies one bounded interval of cleaning responsibility, e.g.
// "2025-W03", "2025-BW19" or "2025-M09". The Half variant marks the irregular
// bridging interval produced by a frequency transition ("2025-BW19.5",
// "2025-M09.5"); it reuses its integer ordinal's rotation slot but covers a
// non-standard date range.
type Period struct {
	Year    int
	Freq    Frequency
	Ordinal int
	Half    bool
}

var periodRegex = regexp.MustCompile(`^(\d{4})-(BW|W|M)(\d{2})(\.5)?$`)

// maxOrdinal is the last regular ordinal of a year for the cadence; callers
// advancing past it roll into ordinal 1 of the next year.
func maxOrdinal(f Frequency) int {
	switch f {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Monthly:
		return 12
	}
	f.mustBeValid()
	return 0
}

func freqForTag(tag string) Frequency {
	switch tag {
	case "W":
		return Weekly
	case "BW":
		return Biweekly
	case "M":
		return Monthly
	}
	return ""
}

func (f Frequency) tag() string {
	switch f {
	case Weekly:
		return "W"
	case Biweekly:
		return "BW"
	case Monthly:
		return "M"
	}
	f.mustBeValid()
	return ""
}

// ParsePeriod extracts a Period from its canonical string form. Malformed
// identifiers yield ok=false; callers degrade to an "unknown period" display
// state rather than failing.
func ParsePeriod(s string) (Period, bool) {
	m := periodRegex.FindStringSubmatch(s)
	if m == nil {
		return Period{}, false
	}
	year, _ := strconv.Atoi(m[1])
	ord, _ := strconv.Atoi(m[3])
	freq := freqForTag(m[2])
	half := m[4] != ""
	if half && freq == Weekly {
		return Period{}, false // half-steps only exist for biweekly/monthly
	}
	return Period{Year: year, Freq: freq, Ordinal: ord, Half: half}, true
}

func (p Period) String() string {
	s := fmt.Sprintf("%04d-%s%02d", p.Year, p.Freq.tag(), p.Ordinal)
	if p.Half {
		s += ".5"
	}
	return s
}

// CurrentPeriod computes the period in effect at the given instant.
func CurrentPeriod(freq Frequency, now time.Time) Period {
	freq.mustBeValid()
	year := now.Year()
	switch freq {
	case Weekly:
		return Period{Year: year, Freq: Weekly, Ordinal: WeekNumber(now)}
	case Biweekly:
		return Period{Year: year, Freq: Biweekly, Ordinal: (WeekNumber(now) + 1) / 2}
	default: // Monthly
		return Period{Year: year, Freq: Monthly, Ordinal: int(now.Month())}
	}
}

// Next returns the period immediately following p under p's own cadence,
// rolling into ordinal 1 of the following year past the last regular ordinal.
// A half-step period advances to the next integer ordinal.
func (p Period) Next() Period {
	next := Period{Year: p.Year, Freq: p.Freq, Ordinal: p.Ordinal + 1}
	if next.Ordinal > maxOrdinal(p.Freq) {
		return Period{Year: p.Year + 1, Freq: p.Freq, Ordinal: 1}
	}
	return next
}
