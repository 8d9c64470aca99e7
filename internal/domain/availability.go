package domain

import (
	"fmt"
	"sort"
)

// AvailabilityIndex answers availability questions for one room. It is
// built from a booking set already filtered to that room and is meant to
// be rebuilt from every fresh fetch, never stored.
type AvailabilityIndex struct {
	bookings []Booking
	spans    []daySpan // merged, ascending, non-touching
}

// daySpan is an inclusive run of disabled days
type daySpan struct {
	first, last Date
}

// NewAvailabilityIndex indexes bookings as given, it does not filter by room.
// Cost grows with the number of bookings, not with the length of a stay.
func NewAvailabilityIndex(bookings []Booking) *AvailabilityIndex {
	idx := &AvailabilityIndex{
		bookings: append([]Booking(nil), bookings...),
	}

	// Both endpoints are disabled, so the check-out day of one stay
	// cannot be picked as a check-in in the date picker.
	raw := make([]daySpan, 0, len(idx.bookings))
	for _, b := range idx.bookings {
		if b.CheckIn.IsZero() || b.CheckOut.IsZero() || b.CheckOut.Before(b.CheckIn) {
			continue
		}
		raw = append(raw, daySpan{first: b.CheckIn, last: b.CheckOut})
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].first.Before(raw[j].first) })

	for _, sp := range raw {
		n := len(idx.spans)
		if n > 0 && !sp.first.After(idx.spans[n-1].last.AddDays(1)) {
			if sp.last.After(idx.spans[n-1].last) {
				idx.spans[n-1].last = sp.last
			}
			continue
		}
		idx.spans = append(idx.spans, sp)
	}

	return idx
}

// DisabledDays returns every day from check-in to check-out inclusive
// over all bookings, deduplicated, in ascending order
func (idx *AvailabilityIndex) DisabledDays() []Date {
	out := []Date{}
	for _, sp := range idx.spans {
		out = appendDays(out, sp.first, sp.last)
	}
	return out
}

// IsDayBlocked reports whether d is one of DisabledDays
func (idx *AvailabilityIndex) IsDayBlocked(d Date) bool {
	i := sort.Search(len(idx.spans), func(i int) bool { return !idx.spans[i].last.Before(d) })
	return i < len(idx.spans) && !d.Before(idx.spans[i].first)
}

// BlockedDaysIn returns the disabled days d with from <= d <= to. Only
// days inside the window are enumerated.
func (idx *AvailabilityIndex) BlockedDaysIn(from, to Date) []Date {
	out := []Date{}
	if to.Before(from) {
		return out
	}
	i := sort.Search(len(idx.spans), func(i int) bool { return !idx.spans[i].last.Before(from) })
	for ; i < len(idx.spans) && !idx.spans[i].first.After(to); i++ {
		first, last := idx.spans[i].first, idx.spans[i].last
		if first.Before(from) {
			first = from
		}
		if last.After(to) {
			last = to
		}
		out = appendDays(out, first, last)
	}
	return out
}

func appendDays(out []Date, first, last Date) []Date {
	for d := first; !d.After(last); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// ConflictsWithExisting reports whether candidate overlaps any indexed
// booking under half-open semantics. It is deliberately independent of
// DisabledDays: a stay may start on another stay's check-out day even
// though that day shows as disabled.
func (idx *AvailabilityIndex) ConflictsWithExisting(candidate DateRange) (bool, error) {
	if !candidate.IsValid() {
		return false, fmt.Errorf("%w: candidate %s", ErrInvalidRange, candidate)
	}

	for _, b := range idx.bookings {
		overlap, err := Overlaps(candidate, b.Range())
		if err != nil {
			return false, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		if overlap {
			return true, nil
		}
	}
	return false, nil
}
