package timewindow

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	testCases := []struct {
		name   string
		text   string
		given  time.Time
		expect decision
	}{
		{
			name:   "always inside",
			text:   "* * * * * * *",
			given:  at(2024, 5, 5, 12, 0, 0),
			expect: decision{field: Year, outcome: withinWindow},
		},
		{
			name:   "before the floor second",
			text:   "10-20 * * * * * *",
			given:  at(2024, 5, 5, 12, 0, 5),
			expect: decision{field: Second, outcome: beforeFloor, floor: 10},
		},
		{
			name:   "past the ceiling second",
			text:   "10-20 * * * * * *",
			given:  at(2024, 5, 5, 12, 0, 21),
			expect: decision{field: Second, outcome: pastCeiling},
		},
		{
			name:   "hour strictly inside",
			text:   "30 15 9-17 * * * *",
			given:  at(2024, 5, 5, 12, 0, 0),
			expect: decision{field: Hour, outcome: withinWindow},
		},
		{
			name:   "full minute range settles early",
			text:   "* 0-59 * * * * *",
			given:  at(2024, 5, 5, 12, 0, 0),
			expect: decision{field: Year, outcome: withinWindow},
		},
		{
			name:   "weekday mismatch",
			text:   "* * 9-17 * * 1-5 *",
			given:  at(2024, 2, 24, 12, 0, 0),
			expect: decision{field: DayOfWeek, outcome: weekdayMismatch},
		},
		{
			name:   "weekday match",
			text:   "* * * * * 1-5 *",
			given:  at(2024, 2, 26, 12, 0, 0),
			expect: decision{field: DayOfMonth, outcome: withinWindow},
		},
		{
			name:   "clamped day floor",
			text:   "* * * 31 * * *",
			given:  at(2023, 2, 1, 0, 0, 0),
			expect: decision{field: DayOfMonth, outcome: beforeFloor, floor: 28},
		},
		{
			name:   "year past the ceiling",
			text:   "* * * * * * 2020-2022",
			given:  at(2024, 2, 1, 0, 0, 0),
			expect: decision{field: Year, outcome: pastCeiling},
		},
	}

	for _, tc := range testCases {
		t.Run(
			tc.name, func(t *testing.T) {
				e := mustParse(t, tc.text)
				require.Len(t, e.rows, 1)
				r := e.rows[0]
				assert.Equal(t, tc.expect, r.decide(tc.given))
				assert.Equal(
					t,
					tc.expect.outcome == withinWindow,
					r.matches(tc.given),
					"decide and matches disagree",
				)
			},
		)
	}
}

func TestSearchClampedWeekday(t *testing.T) {
	// the 29th clamps to the 28th in common years, and the first
	// Monday either falls on after 2024 is 2033-02-28
	e := mustParse(t, "* * * 29 2 1 *")
	next, ok := e.NextValidInstant(at(2024, 3, 1, 0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, at(2033, 2, 28, 0, 0, 0), next)
	assertEarliestFlip(t, e, at(2024, 3, 1, 0, 0, 0), next)

	next, ok = e.NextInvalidInstant(next)
	require.True(t, ok)
	assert.Equal(t, at(2033, 3, 1, 0, 0, 0), next)
}

func TestSearchGivesUp(t *testing.T) {
	e := mustParse(t, "* * * * * * 2030")
	_, ok := e.NextInvalidInstant(at(2030, 6, 1, 0, 0, 0))
	assert.True(t, ok)

	// past its last year a row never opens again
	_, ok = e.NextValidInstant(at(2031, 1, 1, 0, 0, 0))
	assert.False(t, ok)

	// and a window that never closes is reported as such
	e = mustParse(t, "* * * * * * *")
	_, ok = e.NextInvalidInstant(at(2030, 6, 1, 0, 0, 0))
	assert.False(t, ok)
	_, ok = e.NextInvalidInstant(time.Time{})
	assert.False(t, ok)
}

func TestSearchFromThePast(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		given time.Time
		next  time.Time
	}{
		{
			name:  "last second of the last year",
			text:  "59 59 23 31 12 * 2099",
			given: at(1990, 1, 1, 0, 0, 0),
			next:  at(2099, 12, 31, 23, 59, 59),
		},
		{
			name:  "zero time",
			text:  "0 0 0 1 1 * 2000",
			given: time.Time{},
			next:  at(2000, 1, 1, 0, 0, 0),
		},
		{
			name:  "zero time, wildcard year",
			text:  "0 0 12 * * * *",
			given: time.Time{},
			next:  at(1, 1, 1, 12, 0, 0),
		},
	}

	for _, tc := range testCases {
		t.Run(
			tc.name, func(t *testing.T) {
				e := mustParse(t, tc.text)
				next, ok := e.NextValidInstant(tc.given)
				require.True(t, ok)
				assert.Equal(t, tc.next, next)

				next, ok = e.NextInstant(tc.given)
				require.True(t, ok)
				assert.Equal(t, tc.next, next)
			},
		)
	}
}

// TestFlipProperty checks, for random expressions and instants, that
// NextInstant returns the earliest instant where membership changes
func TestFlipProperty(t *testing.T) {
	r := rand.New(rand.NewSource(20241031))
	base := at(2024, 1, 1, 0, 0, 0)

	for i := 0; i < 150; i++ {
		text, err := NewRandom(r)
		require.NoError(t, err)
		e := mustParse(t, text)

		given := base.Add(time.Duration(r.Int63n(int64(8 * 365 * 24 * time.Hour))))
		given = given.Add(time.Duration(r.Intn(1000)) * time.Millisecond)

		t.Run(
			strconv.Itoa(i)+" "+text, func(t *testing.T) {
				inside := e.Check(given)

				valid, ok := e.NextValidInstant(given)
				if inside {
					require.True(t, ok)
					assert.Equal(t, given, valid)
				}
				invalid, ok := e.NextInvalidInstant(given)
				if !inside {
					require.True(t, ok)
					assert.Equal(t, given, invalid)
				}

				next, ok := e.NextInstant(given)
				if !ok {
					return
				}
				assertEarliestFlip(t, e, given, next)

				// and the flip after that, which starts from a boundary
				after, ok := e.NextInstant(next)
				if ok {
					assertEarliestFlip(t, e, next, after)
				}
			},
		)
	}
}

// TestCronOracle compares windows of a single second against
// robfig/cron, whose schedules fire on exactly those seconds
func TestCronOracle(t *testing.T) {
	parser := cron.NewParser(
		cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)
	r := rand.New(rand.NewSource(7))
	base := at(2024, 1, 1, 0, 0, 0)

	for i := 0; i < 200; i++ {
		second, minute, hour := r.Intn(60), r.Intn(60), r.Intn(24)
		weekday, cronWeekday := "*", "*"
		if r.Intn(2) == 0 {
			wd := 1 + r.Intn(7)
			weekday = strconv.Itoa(wd)
			// cron counts from Sunday=0
			cronWeekday = strconv.Itoa(wd % 7)
		}

		text := strconv.Itoa(second) + " " + strconv.Itoa(minute) + " " +
			strconv.Itoa(hour) + " * * " + weekday + " *"
		cronText := strconv.Itoa(second) + " " + strconv.Itoa(minute) + " " +
			strconv.Itoa(hour) + " * * " + cronWeekday

		e := mustParse(t, text)
		sched, err := parser.Parse(cronText)
		require.NoError(t, err)

		given := base.Add(time.Duration(r.Int63n(int64(4*365*24*time.Hour))) / time.Second * time.Second)
		if e.Check(given) {
			continue
		}
		next, ok := e.NextValidInstant(given)
		require.True(t, ok)
		assert.WithinDuration(t, sched.Next(given), next, 0, "%q from %s", text, given)

		end, ok := e.NextInvalidInstant(next)
		require.True(t, ok)
		assert.Equal(t, next.Add(time.Second), end, "%q from %s", text, next)
	}
}

func BenchmarkParse(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	texts := make([]string, 100)
	for i := range texts {
		text, err := NewRandom(r)
		if err != nil {
			b.Fatal(err)
		}
		texts[i] = text
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(texts[i%len(texts)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNextInstant(b *testing.B) {
	e := MustParse("* * 9-17 * * 1-5 *")
	given := at(2024, 2, 24, 14, 30, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.NextInstant(given)
	}
}

func BenchmarkCheck(b *testing.B) {
	e := MustParse("30 15 9-17 * * 1-5,6 *")
	given := at(2024, 2, 24, 14, 30, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Check(given)
	}
}

func FuzzExpression(f *testing.F) {
	f.Add("* * * * * * *", int64(0))
	f.Add("10-20 * * * * * *", int64(1e9))
	f.Add("0 0 8,20 * * 1~3 *", int64(7e15))
	f.Add("30 15 9-17 * * * 2024-2030", int64(3e16))
	f.Add("* * * 31 2 * *", int64(-5e16))
	f.Fuzz(
		func(t *testing.T, text string, offset int64) {
			e, err := Parse(text)
			if err != nil {
				return
			}
			given := at(2024, 1, 1, 0, 0, 0).Add(time.Duration(offset % int64(20*365*24*time.Hour)))
			next, ok := e.NextInstant(given)
			if !ok {
				return
			}
			if e.Check(next) == e.Check(given) {
				t.Fatalf("%q: no change from %s to %s", text, given, next)
			}
			if !next.After(given) {
				t.Fatalf("%q: %s is not after %s", text, next, given)
			}
		},
	)
}
