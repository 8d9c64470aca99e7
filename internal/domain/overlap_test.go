package domain

import (
	"errors"
	"testing"
)

func rng(start, end string) DateRange {
	return NewDateRange(MustParseDate(start), MustParseDate(end))
}

func TestDateRange_IsValid(t *testing.T) {
	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"one night", rng("2024-01-01", "2024-01-02"), true},
		{"same day", rng("2024-01-01", "2024-01-01"), false},
		{"inverted", rng("2024-01-05", "2024-01-01"), false},
		{"zero", DateRange{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateRange_ContainsDayAndNights(t *testing.T) {
	r := rng("2024-01-01", "2024-01-05")

	if !r.ContainsDay(MustParseDate("2024-01-01")) {
		t.Error("start day should be contained")
	}
	if !r.ContainsDay(MustParseDate("2024-01-04")) {
		t.Error("last night should be contained")
	}
	if r.ContainsDay(MustParseDate("2024-01-05")) {
		t.Error("end day should not be contained")
	}
	if r.Nights() != 4 {
		t.Errorf("Nights() = %d, want 4", r.Nights())
	}
	if got := rng("2024-01-01", "2500-01-01").Nights(); got != 173856 {
		t.Errorf("Nights() over 476 years = %d, want 173856", got)
	}
	if rng("2024-01-05", "2024-01-01").Nights() != 0 {
		t.Error("invalid range should have zero nights")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"partial overlap", rng("2024-01-01", "2024-01-05"), rng("2024-01-03", "2024-01-08"), true},
		{"touching end to start", rng("2024-01-01", "2024-01-05"), rng("2024-01-05", "2024-01-08"), false},
		{"touching start to end", rng("2024-01-05", "2024-01-08"), rng("2024-01-01", "2024-01-05"), false},
		{"contained", rng("2024-01-01", "2024-01-10"), rng("2024-01-03", "2024-01-04"), true},
		{"identical", rng("2024-01-01", "2024-01-02"), rng("2024-01-01", "2024-01-02"), true},
		{"disjoint", rng("2024-01-01", "2024-01-02"), rng("2024-02-01", "2024-02-02"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Overlaps(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Overlaps() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}

			rev, err := Overlaps(tt.b, tt.a)
			if err != nil {
				t.Fatalf("Overlaps() reversed error = %v", err)
			}
			if rev != got {
				t.Errorf("Overlaps is not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestOverlaps_SelfOverlapForEveryValidRange(t *testing.T) {
	start := MustParseDate("2024-01-01")
	for offset := 0; offset < 40; offset++ {
		for length := 1; length < 15; length++ {
			r := NewDateRange(start.AddDays(offset), start.AddDays(offset+length))
			got, err := Overlaps(r, r)
			if err != nil || !got {
				t.Fatalf("Overlaps(%s, %s) = %v, %v; want true, nil", r, r, got, err)
			}
		}
	}
}

func TestOverlaps_SymmetricForGeneratedPairs(t *testing.T) {
	base := MustParseDate("2024-01-01")
	var ranges []DateRange
	for offset := 0; offset < 12; offset++ {
		for length := 1; length < 8; length++ {
			ranges = append(ranges, NewDateRange(base.AddDays(offset), base.AddDays(offset+length)))
		}
	}

	for _, a := range ranges {
		for _, b := range ranges {
			ab, err := Overlaps(a, b)
			if err != nil {
				t.Fatalf("Overlaps(%s, %s) error = %v", a, b, err)
			}
			ba, err := Overlaps(b, a)
			if err != nil {
				t.Fatalf("Overlaps(%s, %s) error = %v", b, a, err)
			}
			if ab != ba {
				t.Fatalf("Overlaps(%s, %s) = %v but Overlaps(%s, %s) = %v", a, b, ab, b, a, ba)
			}
			want := false
			for d := a.Start; d.Before(a.End); d = d.AddDays(1) {
				if b.ContainsDay(d) {
					want = true
					break
				}
			}
			if ab != want {
				t.Fatalf("Overlaps(%s, %s) = %v, want %v", a, b, ab, want)
			}
		}
	}
}

func TestOverlaps_InvalidInput(t *testing.T) {
	valid := rng("2024-01-01", "2024-01-05")
	invalid := rng("2024-01-05", "2024-01-05")

	if _, err := Overlaps(invalid, valid); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Overlaps(invalid, valid) error = %v, want ErrInvalidRange", err)
	}
	if _, err := Overlaps(valid, invalid); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Overlaps(valid, invalid) error = %v, want ErrInvalidRange", err)
	}
}
