package trigger

import (
	"fmt"
)

// Trigger is one alert rule in its persisted shape. Profile files, the
// permanent file, and backup snapshots all store lists of this type.
type Trigger struct {
	// Conditions describe what spots this trigger fires on (callsign, mode,
	// band, ...). Opaque to the engine.
	Conditions Document `json:"conditions"`
	// Actions are the notification channels, in order (url, app, threema, telnet).
	Actions []string `json:"actions"`
	// Comment is the user-facing label for the trigger.
	Comment string `json:"comment"`
	// Options holds additional trigger settings. Opaque to the engine.
	Options *Document `json:"options,omitempty"`
}

// Matches reports whether two triggers represent the same rule.
//
// Identity is (conditions, comment): conditions must be structurally equal
// and comments must be byte-for-byte equal. Actions and options are payload,
// not identity, so a trigger whose notification channels changed still
// matches. Conditions differing only in key order do not match; see
// [Document].
func (t Trigger) Matches(o Trigger) bool {
	return t.Conditions.Equal(o.Conditions) && t.Comment == o.Comment
}

// Display renders a one-line human-readable summary, like:
//
//	[cw] W1ABC - "Field day crew"
//
// Mode falls back to "any" and callsign to "?" when the conditions document
// does not carry them.
func (t Trigger) Display() string {
	mode, ok := t.Conditions.StringField("mode")
	if !ok {
		mode = "any"
	}

	callsign, ok := t.Conditions.StringField("callsign")
	if !ok {
		callsign = "?"
	}

	return fmt.Sprintf("[%s] %s - %q", mode, callsign, t.Comment)
}

// Remote is a trigger as it exists on the HamAlert server. The extra fields
// are parsed from fetches but never written to any persisted file.
type Remote struct {
	Trigger

	// ID is the server-assigned trigger identity.
	ID string `json:"_id"`
	// UserID is the owning account, when the server reports it.
	UserID string `json:"user_id,omitempty"`
	// MatchCount is the number of spots this trigger has matched.
	MatchCount uint64 `json:"matchCount,omitempty"`
	// Disabled reports whether the trigger is currently switched off.
	Disabled bool `json:"disabled,omitempty"`
}

// Stored strips the remote-only fields, yielding the persistable shape.
func (r Remote) Stored() Trigger {
	return r.Trigger
}

// StoredSet strips remote-only fields from a fetched set.
func StoredSet(remotes []Remote) []Trigger {
	ts := make([]Trigger, 0, len(remotes))
	for _, r := range remotes {
		ts = append(ts, r.Stored())
	}

	return ts
}

// ContainsMatch reports whether set contains a trigger matching t.
func ContainsMatch(set []Trigger, t Trigger) bool {
	for _, s := range set {
		if s.Matches(t) {
			return true
		}
	}

	return false
}

// FilterOut returns the triggers in set that do not match any entry in exclude.
func FilterOut(set, exclude []Trigger) []Trigger {
	out := []Trigger{}
	for _, t := range set {
		if !ContainsMatch(exclude, t) {
			out = append(out, t)
		}
	}

	return out
}

// Equal reports whether two sets are identical in content and order,
// including actions and options. This is a full comparison, not an identity
// match; it backs the "profile already has identical content" check.
func Equal(a, b []Trigger) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Matches(b[i]) {
			return false
		}
		if len(a[i].Actions) != len(b[i].Actions) {
			return false
		}
		for j := range a[i].Actions {
			if a[i].Actions[j] != b[i].Actions[j] {
				return false
			}
		}
		if (a[i].Options == nil) != (b[i].Options == nil) {
			return false
		}
		if a[i].Options != nil && !a[i].Options.Equal(*b[i].Options) {
			return false
		}
	}

	return true
}
