package types

// Range is a half-open span [Start, End) with Start <= End.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a Range, swapping the ends if they are given out of order.
func NewRange(a, b Position) Range {
	if b.Less(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// Empty reports whether the range covers no characters.
func (r Range) Empty() bool { return r.Start == r.End }

// Contains reports whether p lies inside the half-open span.
func (r Range) Contains(p Position) bool {
	return !p.Less(r.Start) && p.Less(r.End)
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}
