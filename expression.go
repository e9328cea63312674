package timewindow

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// describeLayout is the layout of instants in descriptions and errors
const describeLayout = "2006-01-02 15:04:05.999999999"

// Expression is a parsed, validated time window expression
//
// # Usage
//
// To create a new Expression, use Parse:
//
//	e, err := timewindow.Parse("0 0 9-17 * * 1-5 *")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// To check if an instant falls inside one of its windows, use Check:
//
//	if e.Check(time.Now()) {
//		fmt.Println("open for business")
//	}
//
// To find when that answer changes, use NextInstant:
//
//	if next, ok := e.NextInstant(time.Now()); ok {
//		fmt.Println("changes at", next)
//	}
//
// An Expression is never modified after Parse returns, so it may be
// shared between goroutines.
type Expression struct {
	// text is the expression as given to Parse
	text string

	// rows are the alternatives, any of which admits an instant
	rows []row
}

// Parse parses and validates a time window expression. The returned
// error wraps ErrFormat, ErrRange or ErrConflict.
func Parse(text string) (*Expression, error) {
	rows, err := parseRows(text)
	if err != nil {
		return nil, err
	}
	if err := validate(rows, time.Now()); err != nil {
		return nil, err
	}
	return &Expression{text: text, rows: rows}, nil
}

// MustParse is like Parse but panics if the expression is invalid
func MustParse(text string) *Expression {
	e, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("timewindow: Parse(%q): %s", text, err))
	}
	return e
}

// Check returns true if t falls inside any of the expression's windows
func (e *Expression) Check(t time.Time) bool {
	for _, r := range e.rows {
		if r.matches(t) {
			return true
		}
	}
	return false
}

// CheckNow is Check for the current time
func (e *Expression) CheckNow() bool {
	return e.Check(time.Now())
}

// SourceText returns the text the expression was parsed from
func (e *Expression) SourceText() string {
	return e.text
}

// String returns the expression with its fields separated by single spaces
func (e *Expression) String() string {
	return strings.Join(strings.Fields(e.text), " ")
}

// Describe returns a line per alternative with the window it admits
// around the current time. The output is meant for people, not for
// parsing.
func (e *Expression) Describe() string {
	return e.DescribeAt(time.Now())
}

// DescribeAt is Describe with wildcards taken from t
func (e *Expression) DescribeAt(t time.Time) string {
	var b strings.Builder
	for i, r := range e.rows {
		weekdays := string(Any)
		if wd := r[DayOfWeek]; wd != nil {
			weekdays = wd.String()
		}
		fmt.Fprintf(
			&b,
			"row %d [%s]: %s .. %s, weekday %s\n",
			i,
			r,
			r.floor(t).Format(describeLayout),
			r.ceiling(t).Format(describeLayout),
			weekdays,
		)
	}
	return b.String()
}

// LogValue implements slog.LogValuer
func (e *Expression) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("expression", e.String()),
		slog.Int("rows", len(e.rows)),
	)
}

// bound returns the row's range for f, or the single value of t for
// a wildcard
func (r row) bound(f TimeField, t time.Time) Range {
	if b := r[f]; b != nil {
		return *b
	}
	v := fields[f].value(t)
	return Between(v, v)
}

// floor returns the earliest instant of the row's window around t
func (r row) floor(t time.Time) time.Time {
	return r.compose(t, false)
}

// ceiling returns the last instant of the row's window around t
func (r row) ceiling(t time.Time) time.Time {
	return r.compose(t, true)
}

// compose builds an instant from the minimum (or maximum) of every
// field. The day is capped at the last day of the composed month.
func (r row) compose(t time.Time, upper bool) time.Time {
	pick := func(f TimeField) int {
		b := r.bound(f, t)
		if upper {
			return b.Max
		}
		return b.Min
	}
	nsec := 0
	if upper {
		nsec = int(time.Second - time.Nanosecond)
	}

	year := pick(Year)
	month := time.Month(pick(Month))
	return time.Date(
		year,
		month,
		clampDay(year, month, pick(DayOfMonth)),
		pick(Hour),
		pick(Minute),
		pick(Second),
		nsec,
		t.Location(),
	)
}

// matches returns true if t falls inside the row's window
func (r row) matches(t time.Time) bool {
	if !r.bound(DayOfWeek, t).Contains(isoWeekday(t)) {
		return false
	}
	return !t.Before(r.floor(t)) && !t.After(r.ceiling(t))
}

func (r row) String() string {
	values := make([]string, fieldCount)
	for i, b := range r {
		if b == nil {
			values[i] = string(Any)
			continue
		}
		values[i] = b.String()
	}
	return strings.Join(values, " ")
}
