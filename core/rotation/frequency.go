// Package rotation implements the cleaning rotation period calendar: period
// identifiers, the custom week numbering they are built on, deterministic
// room assignment and the scheduling of frequency changes.
//
// Everything in this package is a pure function of its inputs; persistence of
// settings, rotations and completion records belongs to the callers.
package rotation

import "fmt"

// Frequency is the cadence governing period length on a floor.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

var ErrUnknownFrequency = fmt.Errorf("unknown cleaning frequency")

// Frequencies lists all valid cadences, for API validation and UI choices.
var Frequencies = []Frequency{Weekly, Biweekly, Monthly}

func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly:
		return true
	}
	return false
}

// Label returns a human-readable name for the cadence.
func (f Frequency) Label() string {
	switch f {
	case Weekly:
		return "weekly"
	case Biweekly:
		return "every 2 weeks"
	case Monthly:
		return "monthly"
	}
	return string(f)
}

// ParseFrequency validates a raw frequency value coming in over the API.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
	return f, nil
}

// mustBeValid guards engine entry points against values that bypassed API
// validation; a bad frequency here means corrupted settings data.
func (f Frequency) mustBeValid() {
	if !f.Valid() {
		panic(fmt.Sprintf("rotation: unknown frequency %q", string(f)))
	}
}
