package domain

import "fmt"

// DateRange is a half-open span of calendar days [Start, End).
// It is valid only when End is strictly after Start.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewDateRange builds a range without validating it.
func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// ParseDateRange parses two YYYY-MM-DD strings. It does not check IsValid,
// but a malformed date is reported as ErrInvalidRange.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	return DateRange{Start: s, End: e}, nil
}

// IsValid reports whether End is strictly after Start.
func (r DateRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.End.After(r.Start)
}

// ContainsDay reports whether Start <= d < End.
func (r DateRange) ContainsDay(d Date) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}

// Nights returns the number of nights covered, zero for an invalid range.
func (r DateRange) Nights() int {
	if !r.IsValid() {
		return 0
	}
	return r.Start.DaysUntil(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}
