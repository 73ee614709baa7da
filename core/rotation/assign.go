package rotation

import (
	"regexp"
	"strconv"
)

// ordinalRegex pulls the trailing numeric ordinal out of a period identifier.
// A ".5" suffix is deliberately left behind: half-step periods reuse the
// integer ordinal's rotation slot.
var ordinalRegex = regexp.MustCompile(`-(?:BW|W|M)(\d+)`)

// AssignedIndex resolves which rotation position is responsible for a period:
// (ordinal - 1) mod rotationLength. The rotation must be ordered exactly as
// persisted (index 0 = lowest order value); re-sorting it changes every future
// assignment.
//
// An empty rotation or an unparseable period yields index 0 without failing.
// Callers must still branch on rotationLength == 0 themselves before
// dereferencing a room ("no rotation configured" is a display state here, not
// an error).
func AssignedIndex(rotationLength int, period string) int {
	if rotationLength <= 0 {
		return 0
	}
	m := ordinalRegex.FindStringSubmatch(period)
	if m == nil {
		return 0
	}
	ord, err := strconv.Atoi(m[1])
	if err != nil || ord < 1 {
		return 0
	}
	return (ord - 1) % rotationLength
}
