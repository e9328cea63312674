package timewindow

import "time"

// TimeField identifies one of the seven columns of an expression. The
// order of the constants is the column order of the expression text.
type TimeField int

const (
	Second TimeField = iota
	Minute
	Hour
	DayOfMonth
	Month
	DayOfWeek
	Year

	// NoField marks an error that is not tied to a single column
	NoField TimeField = -1
)

// fieldCount is the number of columns in an expression
const fieldCount = 7

// descriptor holds the static metadata of a TimeField
type descriptor struct {
	// Name is used in error messages and descriptions
	Name string

	// Bounds is the range of values a constraint may use
	Bounds Range

	// value extracts the field's wall-clock value from an instant
	value func(t time.Time) int

	// set returns t with the field set to v and every less
	// significant field reset to its minimum. nil for DayOfWeek,
	// which is not a component of a date.
	set func(t time.Time, v int) time.Time

	// step advances t by one unit of the field, resetting every
	// less significant field to its minimum
	step func(t time.Time) time.Time
}

var fields = [fieldCount]descriptor{
	Second: {
		Name:   "second",
		Bounds: Between(0, 59),
		value:  func(t time.Time) int { return t.Second() },
		set: func(t time.Time, v int) time.Time {
			y, mo, d, h, mi, _ := civil(t)
			return time.Date(y, mo, d, h, mi, v, 0, t.Location())
		},
		step: func(t time.Time) time.Time {
			y, mo, d, h, mi, s := civil(t)
			return time.Date(y, mo, d, h, mi, s+1, 0, t.Location())
		},
	},
	Minute: {
		Name:   "minute",
		Bounds: Between(0, 59),
		value:  func(t time.Time) int { return t.Minute() },
		set: func(t time.Time, v int) time.Time {
			y, mo, d, h, _, _ := civil(t)
			return time.Date(y, mo, d, h, v, 0, 0, t.Location())
		},
		step: func(t time.Time) time.Time {
			y, mo, d, h, mi, _ := civil(t)
			return time.Date(y, mo, d, h, mi+1, 0, 0, t.Location())
		},
	},
	Hour: {
		Name:   "hour",
		Bounds: Between(0, 23),
		value:  func(t time.Time) int { return t.Hour() },
		set: func(t time.Time, v int) time.Time {
			y, mo, d, _, _, _ := civil(t)
			return time.Date(y, mo, d, v, 0, 0, 0, t.Location())
		},
		step: func(t time.Time) time.Time {
			y, mo, d, h, _, _ := civil(t)
			return time.Date(y, mo, d, h+1, 0, 0, 0, t.Location())
		},
	},
	DayOfMonth: {
		Name:   "day",
		Bounds: Between(1, 31),
		value:  func(t time.Time) int { return t.Day() },
		set: func(t time.Time, v int) time.Time {
			y, mo, _, _, _, _ := civil(t)
			return time.Date(y, mo, v, 0, 0, 0, 0, t.Location())
		},
		step: nextDay,
	},
	Month: {
		Name:   "month",
		Bounds: Between(1, 12),
		value:  func(t time.Time) int { return int(t.Month()) },
		set: func(t time.Time, v int) time.Time {
			return time.Date(t.Year(), time.Month(v), 1, 0, 0, 0, 0, t.Location())
		},
		step: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
		},
	},
	DayOfWeek: {
		Name:   "weekday",
		Bounds: Between(1, 7),
		value:  isoWeekday,
		step:   nextDay,
	},
	Year: {
		Name:   "year",
		Bounds: Between(2000, 2099),
		value:  func(t time.Time) int { return t.Year() },
		set: func(t time.Time, v int) time.Time {
			return time.Date(v, time.January, 1, 0, 0, 0, 0, t.Location())
		},
		step: func(t time.Time) time.Time {
			return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location())
		},
	},
}

// significance lists the date-time components from the most to the
// least significant. DayOfWeek is not a component; it is tested
// together with DayOfMonth.
var significance = [...]TimeField{Year, Month, DayOfMonth, Hour, Minute, Second}

func (f TimeField) String() string {
	if f < 0 || int(f) >= fieldCount {
		return "none"
	}
	return fields[f].Name
}

// parent returns the next more significant component of f, and false
// for Year
func (f TimeField) parent() (TimeField, bool) {
	switch f {
	case Second:
		return Minute, true
	case Minute:
		return Hour, true
	case Hour:
		return DayOfMonth, true
	case DayOfMonth, DayOfWeek:
		return Month, true
	case Month:
		return Year, true
	}
	return NoField, false
}

// civil splits t into its wall-clock components
func civil(t time.Time) (year int, month time.Month, day, hour, minute, second int) {
	year, month, day = t.Date()
	hour, minute, second = t.Clock()
	return
}

func nextDay(t time.Time) time.Time {
	y, mo, d, _, _, _ := civil(t)
	return time.Date(y, mo, d+1, 0, 0, 0, 0, t.Location())
}

// isoWeekday returns the ISO 8601 weekday of t, Monday=1 through Sunday=7
func isoWeekday(t time.Time) int {
	if wd := t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// lastDay returns the number of days in the given month
func lastDay(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay caps day at the last day of the given month
func clampDay(year int, month time.Month, day int) int {
	return min(day, lastDay(year, month))
}
