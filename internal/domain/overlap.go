package domain

import "fmt"

// Overlaps reports whether two half-open ranges share at least one day:
// a.Start < b.End && a.End > b.Start. Ranges that only touch (one ends
// on the day the other starts) do not overlap. Invalid input is an
// error, never a silent false.
func Overlaps(a, b DateRange) (bool, error) {
	if !a.IsValid() {
		return false, fmt.Errorf("%w: %s", ErrInvalidRange, a)
	}
	if !b.IsValid() {
		return false, fmt.Errorf("%w: %s", ErrInvalidRange, b)
	}
	return a.Start.Before(b.End) && a.End.After(b.Start), nil
}
