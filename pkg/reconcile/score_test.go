package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/hamal/pkg/reconcile"
	"github.com/macropower/hamal/pkg/trigger"
)

func TestScoreProfile(t *testing.T) {
	t.Parallel()

	a := stored("W1ABC", "A")
	b := stored("K2DEF", "B")
	c := stored("N3GHI", "C")

	tests := []struct {
		name    string
		live    []trigger.Trigger
		profile []trigger.Trigger
		want    reconcile.Score
	}{
		{
			name:    "identical sets match fully",
			live:    []trigger.Trigger{a, b},
			profile: []trigger.Trigger{a, b},
			want:    reconcile.Score{Matched: 2, Total: 2},
		},
		{
			name:    "empty live set matches nothing",
			live:    nil,
			profile: []trigger.Trigger{a, b, c},
			want:    reconcile.Score{Matched: 0, Total: 3},
		},
		{
			name:    "partial coverage",
			live:    []trigger.Trigger{a},
			profile: []trigger.Trigger{a, b},
			want:    reconcile.Score{Matched: 1, Total: 2},
		},
		{
			name:    "live extras do not count",
			live:    []trigger.Trigger{a, b, c},
			profile: []trigger.Trigger{a},
			want:    reconcile.Score{Matched: 1, Total: 1},
		},
		{
			name:    "empty profile",
			live:    []trigger.Trigger{a},
			profile: nil,
			want:    reconcile.Score{Matched: 0, Total: 0},
		},
		{
			name: "one live trigger satisfies several profile entries",
			live: []trigger.Trigger{a},
			// Same identity, different actions: the match test is
			// existential, with no consumption.
			profile: []trigger.Trigger{
				a,
				{Conditions: a.Conditions, Actions: []string{"url"}, Comment: a.Comment},
			},
			want: reconcile.Score{Matched: 2, Total: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, reconcile.ScoreProfile(tt.live, tt.profile))
		})
	}
}

func TestScore_Percent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score reconcile.Score
		want  int
	}{
		{name: "full", score: reconcile.Score{Matched: 3, Total: 3}, want: 100},
		{name: "integer division truncates", score: reconcile.Score{Matched: 2, Total: 3}, want: 66},
		{name: "zero matched", score: reconcile.Score{Matched: 0, Total: 5}, want: 0},
		{name: "empty profile is a vacuous full match", score: reconcile.Score{Matched: 0, Total: 0}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.score.Percent())
		})
	}
}

func TestScore_Exact(t *testing.T) {
	t.Parallel()

	assert.True(t, reconcile.Score{Matched: 2, Total: 2}.Exact())
	assert.False(t, reconcile.Score{Matched: 1, Total: 2}.Exact())
	// An empty profile is never an exact match, even at 100%.
	assert.False(t, reconcile.Score{Matched: 0, Total: 0}.Exact())
}
