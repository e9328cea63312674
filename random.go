package timewindow

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// maxRandomAttempts is how many candidates NewRandom generates before
// giving up on finding a valid one
const maxRandomAttempts = 100

// NewRandom returns a random, valid time window expression. If r is
// nil, a source seeded from the current time is used.
//
// Most fields are wildcards, the rest are single values or ranges.
// Occasionally an expression gets two or three alternatives, or a
// single field expanded with '~'.
func NewRandom(r *rand.Rand) (string, error) {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}

	var errs []error
	for i := 0; i < maxRandomAttempts; i++ {
		text := randomExpression(r)
		_, err := Parse(text)
		if err == nil {
			return text, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf(
		"no valid expression after %d attempts: %w",
		maxRandomAttempts,
		errors.Join(errs...),
	)
}

func randomExpression(r *rand.Rand) string {
	tokens := make([]string, fieldCount)

	alternatives := 1
	switch r.Intn(10) {
	case 0:
		alternatives = 2
	case 1:
		alternatives = 3
	}

	expanded := NoField
	if alternatives == 1 && r.Intn(10) == 0 {
		expanded = TimeField(r.Intn(fieldCount))
	}

	for i := range tokens {
		f := TimeField(i)
		switch {
		case f == expanded:
			tokens[i] = randomExpansion(r, f)
		case alternatives > 1 && r.Intn(3) == 0:
			entries := make([]string, alternatives)
			for j := range entries {
				entries[j] = randomEntry(r, f)
			}
			tokens[i] = strings.Join(entries, string(ListSeparator))
		default:
			tokens[i] = randomEntry(r, f)
		}
	}
	return strings.Join(tokens, " ")
}

// randomEntry returns a wildcard, a single value or a range. Extra
// weight is put on the wildcard for the date fields, as constraining
// all of them is rarely useful and often conflicts.
func randomEntry(r *rand.Rand, f TimeField) string {
	anyWeight := 4
	switch f {
	case Year:
		anyWeight = 9
	case Month, DayOfMonth:
		anyWeight = 7
	}
	if r.Intn(10) < anyWeight {
		return string(Any)
	}

	start := randomValue(r, f)
	if r.Intn(2) == 0 {
		return strconv.Itoa(start)
	}
	end := start + r.Intn(fields[f].Bounds.Max-start+1)
	return strconv.Itoa(start) + string(RangeSeparator) + strconv.Itoa(end)
}

// randomExpansion returns a short A~B entry
func randomExpansion(r *rand.Rand, f TimeField) string {
	start := randomValue(r, f)
	end := min(start+r.Intn(3), fields[f].Bounds.Max)
	return strconv.Itoa(start) + string(Expand) + strconv.Itoa(end)
}

// randomValue returns a value within the field's bounds. Years are
// kept close to the present so windows are reachable.
func randomValue(r *rand.Rand, f TimeField) int {
	bounds := fields[f].Bounds
	if f == Year {
		return 2020 + r.Intn(20)
	}
	return bounds.Min + r.Intn(bounds.Max-bounds.Min+1)
}
