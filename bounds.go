package timewindow

import "strconv"

// Range is an inclusive [Min, Max] interval of field values. Range does
// not enforce Min <= Max; expressions are checked for that at Parse time.
type Range struct {
	Min int
	Max int
}

// Between returns the range [min, max]
func Between(min, max int) Range {
	return Range{Min: min, Max: max}
}

// Contains returns true if v lies within the range
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// ContainsRange returns true if both ends of o lie within the range
func (r Range) ContainsRange(o Range) bool {
	return r.Contains(o.Min) && r.Contains(o.Max)
}

func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return strconv.Itoa(r.Min) + string(RangeSeparator) + strconv.Itoa(r.Max)
}
