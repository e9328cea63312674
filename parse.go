package timewindow

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	// Expression special characters

	Any            = '*'
	ListSeparator  = ','
	RangeSeparator = '-'
	Expand         = '~'
)

// row is one alternative of an expression, holding a range per
// TimeField. A nil range is a wildcard.
type row [fieldCount]*Range

// parseRows splits an expression into its alternatives. Only the syntax
// is checked here; bounds and consistency are left to validate.
func parseRows(text string) ([]row, error) {
	for _, c := range text {
		if !allowedChar(c) {
			return nil, formatError(NoField, "illegal character %q", c)
		}
	}

	tokens := strings.Fields(text)
	if len(tokens) != fieldCount {
		return nil, formatError(
			NoField,
			"expected %d fields, got %d",
			fieldCount,
			len(tokens),
		)
	}

	// Each column becomes a list of entries. A column with a single
	// entry applies to every alternative, the others must all have
	// the same number of entries.
	columns := make([][]string, fieldCount)
	width := 1
	for i, token := range tokens {
		expanded, err := expand(TimeField(i), token)
		if err != nil {
			return nil, err
		}
		columns[i] = strings.Split(expanded, string(ListSeparator))
		width = max(width, len(columns[i]))
	}

	rows := make([]row, width)
	for i, entries := range columns {
		f := TimeField(i)
		if len(entries) != 1 && len(entries) != width {
			return nil, formatError(
				f,
				"%d alternatives, expected 1 or %d",
				len(entries),
				width,
			)
		}
		for j := range rows {
			entry := entries[0]
			if len(entries) == width {
				entry = entries[j]
			}
			r, err := parseEntry(f, entry)
			if err != nil {
				return nil, err
			}
			rows[j][f] = r
		}
	}
	return rows, nil
}

func allowedChar(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == Any, c == ListSeparator, c == RangeSeparator, c == Expand:
		return true
	}
	return unicode.IsSpace(c)
}

// expand replaces every A~B entry of a token with the list A,A+1,...,B
func expand(f TimeField, token string) (string, error) {
	if !strings.ContainsRune(token, Expand) {
		return token, nil
	}
	entries := strings.Split(token, string(ListSeparator))
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		before, after, found := strings.Cut(entry, string(Expand))
		if !found {
			out = append(out, entry)
			continue
		}
		start, err := parseValue(f, before)
		if err != nil {
			return "", err
		}
		end, err := parseValue(f, after)
		if err != nil {
			return "", err
		}
		// checked before expanding, so a typo can't produce
		// millions of entries
		bounds := fields[f].Bounds
		if !bounds.ContainsRange(Between(start, end)) {
			return "", rangeError(-1, f, "'%s' outside of %s", entry, bounds)
		}
		if start > end {
			return "", rangeError(-1, f, "'%s' starts after it ends", entry)
		}
		for v := start; v <= end; v++ {
			out = append(out, strconv.Itoa(v))
		}
	}
	return strings.Join(out, string(ListSeparator)), nil
}

// parseEntry parses a single list entry: '*', 'N' or 'A-B'
func parseEntry(f TimeField, entry string) (*Range, error) {
	if entry == string(Any) {
		return nil, nil
	}

	before, after, found := strings.Cut(entry, string(RangeSeparator))
	start, err := parseValue(f, before)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Range{Min: start, Max: start}, nil
	}

	end, err := parseValue(f, after)
	if err != nil {
		return nil, err
	}
	return &Range{Min: start, Max: end}, nil
}

// parseValue parses a non-negative integer
func parseValue(f TimeField, s string) (int, error) {
	if s == "" {
		return 0, formatError(f, "empty value")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, formatError(f, "'%s' is not a number", s)
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, rangeError(-1, f, "'%s' outside of %s", s, fields[f].Bounds)
	}
	return v, nil
}
