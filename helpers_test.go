package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// maxExactScan is the longest stretch assertEarliestFlip checks second
// by second; longer ones are sampled
const maxExactScan = 6 * time.Hour

// at returns a UTC instant
func at(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

func mustParse(t testing.TB, text string) *Expression {
	t.Helper()
	e, err := Parse(text)
	require.NoError(t, err, "parsing %q", text)
	return e
}

// assertEarliestFlip verifies next is a flip instant after base, and
// that membership does not change in between. Membership only changes
// on whole seconds, so the start of every second is checked.
func assertEarliestFlip(t testing.TB, e *Expression, base, next time.Time) {
	t.Helper()
	want := e.Check(base)
	require.NotEqual(
		t,
		want,
		e.Check(next),
		"%q: expected membership to change at %s (base %s)",
		e,
		next,
		base,
	)
	require.True(t, next.After(base), "%q: %s is not after %s", e, next, base)

	start := base.Truncate(time.Second).Add(time.Second)
	step := time.Second
	if gap := next.Sub(start); gap > maxExactScan {
		step = max(time.Second, (gap / 20000).Truncate(time.Second))
	}
	for c := start; c.Before(next); c = c.Add(step) {
		require.Equal(t, want, e.Check(c), "%q: membership changed early at %s (base %s, next %s)", e, c, base, next)
	}
	if step == time.Second {
		return
	}
	for c := next.Add(-2 * time.Minute); c.Before(next); c = c.Add(time.Second) {
		if c.After(base) {
			require.Equal(t, want, e.Check(c), "%q: membership changed early at %s (base %s, next %s)", e, c, base, next)
		}
	}
}
