package reconcile

import (
	"github.com/macropower/hamal/pkg/trigger"
)

// Classification partitions a live trigger set. Every live trigger lands in
// exactly one bucket.
type Classification struct {
	// Permanent holds live triggers matching the permanent set.
	Permanent []trigger.Remote
	// Reference holds non-permanent live triggers matching the reference
	// profile.
	Reference []trigger.Remote
	// Unexpected holds live triggers matching neither.
	Unexpected []trigger.Remote
}

// Classify buckets each live trigger: permanent match first, then reference
// match, then unexpected.
//
// A nil reference means no baseline is known, so nothing non-permanent can be
// accounted for and every non-permanent trigger is unexpected. That is the
// intended reading, not a degenerate case.
func Classify(live []trigger.Remote, permanent, reference []trigger.Trigger) Classification {
	c := Classification{
		Permanent:  []trigger.Remote{},
		Reference:  []trigger.Remote{},
		Unexpected: []trigger.Remote{},
	}

	for _, r := range live {
		switch {
		case trigger.ContainsMatch(permanent, r.Stored()):
			c.Permanent = append(c.Permanent, r)

		case trigger.ContainsMatch(reference, r.Stored()):
			c.Reference = append(c.Reference, r)

		default:
			c.Unexpected = append(c.Unexpected, r)
		}
	}

	return c
}
