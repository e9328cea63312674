package timewindow

import (
	"log/slog"
	"time"
)

const (
	// maxSearchSteps caps the number of cursor moves of a single
	// search. Regular searches need a few hundred at most.
	maxSearchSteps = 1 << 20

	// searchHorizonYears is how far past the base a search looks
	// before it gives up, the span of the Year field. Searches always
	// reach the last year of the field.
	searchHorizonYears = 100
)

// NextInstant returns the earliest instant at or after base where Check
// gives a different answer than it gives for base. ok is false when the
// answer never changes.
func (e *Expression) NextInstant(base time.Time) (next time.Time, ok bool) {
	if e.Check(base) {
		return e.NextInvalidInstant(base)
	}
	return e.NextValidInstant(base)
}

// NextValidInstant returns base if it falls inside a window, or else
// the start of the next window. ok is false if no window opens after
// base.
func (e *Expression) NextValidInstant(base time.Time) (next time.Time, ok bool) {
	if e.Check(base) {
		return base, true
	}
	for _, r := range e.rows {
		t, found := r.search(base, true)
		if found && (!ok || t.Before(next)) {
			next, ok = t, true
		}
	}
	return next, ok
}

// NextInvalidInstant returns base if it falls outside every window, or
// else the first instant after base that does. ok is false if the
// windows never close.
func (e *Expression) NextInvalidInstant(base time.Time) (time.Time, bool) {
	if !e.Check(base) {
		return base, true
	}

	// Rows may overlap: when the row that stays open the longest
	// closes, another one may have opened in the meantime.
	t := base
	for i := 0; i < maxSearchSteps; i++ {
		var exit time.Time
		for _, r := range e.rows {
			if !r.matches(t) {
				continue
			}
			end, ok := r.search(t, false)
			if !ok {
				return time.Time{}, false
			}
			if end.After(exit) {
				exit = end
			}
		}
		if !exit.After(t) {
			break
		}
		if !e.Check(exit) {
			return exit, true
		}
		t = exit
	}
	slog.Warn("time window search gave up", "expression", e, "base", base)
	return time.Time{}, false
}

// UntilNextInstant returns the duration from base until NextInstant
func (e *Expression) UntilNextInstant(base time.Time) (time.Duration, bool) {
	next, ok := e.NextInstant(base)
	if !ok {
		return 0, false
	}
	return next.Sub(base), true
}

// outcome is the result of comparing an instant with a row's window
type outcome int

const (
	withinWindow outcome = iota
	beforeFloor
	pastCeiling
	weekdayMismatch
)

// decision is the first component at which an instant's membership in
// a row's window is settled, regardless of the less significant
// components
type decision struct {
	field   TimeField
	outcome outcome

	// floor is the value to snap field to when outcome is beforeFloor
	floor int
}

// weekdays returns the row's weekday range, and false when every
// weekday is allowed
func (r row) weekdays() (Range, bool) {
	wd := r[DayOfWeek]
	if wd == nil || wd.ContainsRange(fields[DayOfWeek].Bounds) {
		return Range{}, false
	}
	return *wd, true
}

// decide compares t with the row's window, component by component from
// the year down. atFloor and atCeiling track whether the components
// seen so far are equal to the floor's and ceiling's; once both are
// false, or the remaining components can't leave the window, the
// outcome is settled.
func (r row) decide(t time.Time) decision {
	year, month := t.Year(), t.Month()
	weekdays, weekdayPending := r.weekdays()
	atFloor, atCeiling := true, true

	for i, f := range significance {
		v := fields[f].value(t)
		if b := r[f]; b != nil {
			lo, hi := b.Min, b.Max
			if f == DayOfMonth {
				lo, hi = clampDay(year, month, lo), clampDay(year, month, hi)
			}
			if atFloor {
				if v < lo {
					return decision{field: f, outcome: beforeFloor, floor: lo}
				}
				atFloor = v == lo
			}
			if atCeiling {
				if v > hi {
					return decision{field: f, outcome: pastCeiling}
				}
				atCeiling = v == hi
			}
		}

		if f == DayOfMonth && weekdayPending {
			if !weekdays.Contains(isoWeekday(t)) {
				return decision{field: DayOfWeek, outcome: weekdayMismatch}
			}
			weekdayPending = false
		}

		if !weekdayPending && r.settled(significance[i+1:], atFloor, atCeiling, t) {
			return decision{field: f, outcome: withinWindow}
		}
	}
	return decision{field: Second, outcome: withinWindow}
}

// settled returns true if any values of the remaining components keep
// an instant inside the window
func (r row) settled(remaining []TimeField, atFloor, atCeiling bool, t time.Time) bool {
	monthKnown := true
	for _, f := range remaining {
		if f == Month {
			monthKnown = false
		}
		b := r[f]
		if b == nil {
			continue
		}
		bounds := fields[f].Bounds
		if atFloor && b.Min > bounds.Min {
			return false
		}
		if !atCeiling {
			continue
		}
		maximum := bounds.Max
		if f == DayOfMonth && monthKnown {
			maximum = lastDay(t.Year(), t.Month())
		}
		if b.Max < maximum {
			return false
		}
	}
	return true
}

// search returns the earliest instant, no earlier than the start of
// base's second, that is inside the row's window (or outside of it when
// inside is false). Membership only changes on whole seconds.
func (r row) search(base time.Time, inside bool) (time.Time, bool) {
	t := fields[Second].set(base, base.Second())
	horizon := max(t.Year()+searchHorizonYears, fields[Year].Bounds.Max+1)

	for i := 0; i < maxSearchSteps; i++ {
		if t.Year() > horizon {
			return time.Time{}, false
		}

		d := r.decide(t)
		if (d.outcome == withinWindow) == inside {
			return t, true
		}

		switch d.outcome {
		case withinWindow:
			// still inside: skip the rest of the settled component,
			// a whole day at a time for weekday windows
			t = fields[d.field].step(t)
		case beforeFloor:
			t = fields[d.field].set(t, d.floor)
		case pastCeiling:
			parent, ok := d.field.parent()
			if !ok {
				return time.Time{}, false
			}
			t = fields[parent].step(t)
		case weekdayMismatch:
			t = fields[DayOfWeek].step(t)
		}
	}
	slog.Warn("time window search step limit reached", "row", r.String(), "base", base)
	return time.Time{}, false
}
