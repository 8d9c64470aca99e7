package domain

import (
	"fmt"
	"time"
)

// DateLayout is the text form of a Date in JSON, query strings and SQL
const DateLayout = "2006-01-02"

// Years outside this span are rejected by ParseDate. Year 1 is excluded
// because 0001-01-01 is the zero Date.
const (
	MinYear = 1900
	MaxYear = 9999
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar day with no time-of-day and no timezone meaning.
// The zero value is not a valid day. Dates are comparable with == and
// usable as map keys.
type Date struct {
	t time.Time // always UTC midnight
}

// NewDate returns the given calendar day. Out of range values are
// normalized the way time.Date does (Feb 30 becomes Mar 1 or 2).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day in the local timezone
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string with a year in [MinYear, MaxYear]
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return dateInRange(s, t)
}

func dateInRange(s string, t time.Time) (Date, error) {
	d := DateOf(t)
	if y := d.t.Year(); y < MinYear || y > MaxYear {
		return Date{}, fmt.Errorf("invalid date %q: year must be between %d and %d", s, MinYear, MaxYear)
	}
	return d, nil
}

// MustParseDate is ParseDate for literals, it panics on bad input
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays returns d shifted by n days
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of days from d to other (negative if other is earlier)
func (d Date) DaysUntil(other Date) int {
	// Unix seconds, not Sub: a Duration saturates after ~292 years
	return int((other.t.Unix() - d.t.Unix()) / secondsPerDay)
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly later than other
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same day
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Compare returns -1, 0 or +1
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// Time returns the day as UTC midnight
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler, which also covers JSON
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Full RFC 3339
// timestamps are accepted too and truncated to their calendar day.
func (d *Date) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
		parsed, err := dateInRange(s, t)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
