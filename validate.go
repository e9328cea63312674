package timewindow

import (
	"errors"
	"time"
)

// maxConflictDays caps the weekday walk at the span of the Year field
const maxConflictDays = 100*366 + 1

// validate checks every row of a freshly parsed expression, collecting
// the errors of all rows. now is substituted for wildcards when a row's
// window is composed.
func validate(rows []row, now time.Time) error {
	var errs []error
	for i, r := range rows {
		if rowErrs := r.checkBounds(i); len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		if err := r.checkSpan(i, now); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := r.checkWeekdays(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// checkBounds returns an error for every range that is inverted or
// leaves its field's bounds
func (r row) checkBounds(index int) []error {
	var errs []error
	for i, b := range r {
		if b == nil {
			continue
		}
		f := TimeField(i)
		bounds := fields[f].Bounds
		switch {
		case b.Min > b.Max:
			errs = append(
				errs,
				rangeError(index, f, "start %d is greater than end %d", b.Min, b.Max),
			)
		case !bounds.ContainsRange(*b):
			errs = append(
				errs,
				rangeError(index, f, "'%s' outside of %s", b, bounds),
			)
		}
	}
	return errs
}

// checkSpan verifies the row's window, composed around now, does not
// end before it starts
func (r row) checkSpan(index int, now time.Time) error {
	floor, ceiling := r.floor(now), r.ceiling(now)
	if floor.After(ceiling) {
		return rangeError(
			index,
			NoField,
			"window starts at %s after it ends at %s",
			floor.Format(describeLayout),
			ceiling.Format(describeLayout),
		)
	}
	return nil
}

// checkWeekdays walks the dates of a row that fixes year, month, day
// and weekday, and fails if none of them falls on an allowed weekday
func (r row) checkWeekdays(index int) error {
	years, months, days, weekdays := r[Year], r[Month], r[DayOfMonth], r[DayOfWeek]
	if years == nil || months == nil || days == nil || weekdays == nil {
		return nil
	}

	first := time.Date(
		years.Min,
		time.Month(months.Min),
		clampDay(years.Min, time.Month(months.Min), days.Min),
		0, 0, 0, 0, time.UTC,
	)
	last := time.Date(
		years.Max,
		time.Month(months.Max),
		clampDay(years.Max, time.Month(months.Max), days.Max),
		0, 0, 0, 0, time.UTC,
	)

	for d, n := first, 0; !d.After(last) && n < maxConflictDays; d, n = nextDay(d), n+1 {
		if weekdays.Contains(isoWeekday(d)) {
			return nil
		}
	}
	return &Error{
		Kind:  ErrConflict,
		Row:   index,
		Field: DayOfWeek,
		Reason: "no date from " + first.Format(time.DateOnly) + " to " +
			last.Format(time.DateOnly) + " falls on weekday " + weekdays.String(),
	}
}
