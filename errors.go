package timewindow

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is returned for expressions with the wrong number of
	// fields, illegal characters, malformed entries, or alternative
	// lists of different lengths
	ErrFormat = errors.New("malformed time window expression")

	// ErrRange is returned when a value lies outside of its field's
	// bounds, or a range's minimum exceeds its maximum
	ErrRange = errors.New("time window value out of range")

	// ErrConflict is returned when a row's weekday constraint can't
	// be met by any date allowed by its year, month and day
	ErrConflict = errors.New("time window weekday conflicts with date")
)

// Error describes why an expression was rejected. Kind is one of
// ErrFormat, ErrRange or ErrConflict, so callers can match on it
// with errors.Is.
type Error struct {
	Kind error

	// Row is the index of the offending alternative, or -1
	Row int

	// Field is the offending column, or NoField
	Field TimeField

	Reason string
}

func (e *Error) Error() string {
	switch {
	case e.Row >= 0 && e.Field != NoField:
		return fmt.Sprintf("%s: row %d %s: %s", e.Kind, e.Row, e.Field, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("%s: row %d: %s", e.Kind, e.Row, e.Reason)
	case e.Field != NoField:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func formatError(field TimeField, format string, args ...any) *Error {
	return &Error{Kind: ErrFormat, Row: -1, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func rangeError(row int, field TimeField, format string, args ...any) *Error {
	return &Error{Kind: ErrRange, Row: row, Field: field, Reason: fmt.Sprintf(format, args...)}
}
