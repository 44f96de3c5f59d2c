package reconcile

import (
	"github.com/macropower/hamal/pkg/trigger"
)

// Score is the coverage of one profile against a live trigger set.
type Score struct {
	// Matched is the number of profile entries present in the live set.
	Matched int
	// Total is the profile size.
	Total int
}

// Percent returns the match percentage using integer division.
// An empty profile is a vacuous full match, not a division by zero.
func (s Score) Percent() int {
	if s.Total == 0 {
		return 100
	}

	return s.Matched * 100 / s.Total
}

// Exact reports whether every entry of a non-empty profile matched.
func (s Score) Exact() bool {
	return s.Total > 0 && s.Matched == s.Total
}

// ScoreProfile counts how many profile entries have at least one identity
// match in live. The test is existential: a single live trigger may satisfy
// several profile entries, there is no pairing or consumption.
func ScoreProfile(live, profile []trigger.Trigger) Score {
	matched := 0

	for _, p := range profile {
		if trigger.ContainsMatch(live, p) {
			matched++
		}
	}

	return Score{Matched: matched, Total: len(profile)}
}
