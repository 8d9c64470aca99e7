package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-01-05", NewDate(2024, time.January, 5), false},
		{"2024-02-29", NewDate(2024, time.February, 29), false},
		{"2023-02-29", Date{}, true},
		{"9999-12-31", NewDate(9999, time.December, 31), false},
		{"1900-01-01", NewDate(1900, time.January, 1), false},
		{"1899-12-31", Date{}, true},
		{"0001-01-01", Date{}, true},
		{"05/01/2024", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDateOf_DropsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := DateOf(time.Date(2024, 3, 10, 23, 30, 0, 0, loc))

	if got != NewDate(2024, time.March, 10) {
		t.Errorf("DateOf() = %v, want 2024-03-10", got)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-02-28")

	if got := d.AddDays(1); got.String() != "2024-02-29" {
		t.Errorf("AddDays(1) = %v, want 2024-02-29", got)
	}
	if got := d.AddDays(2); got.String() != "2024-03-01" {
		t.Errorf("AddDays(2) = %v, want 2024-03-01", got)
	}
	if got := d.DaysUntil(MustParseDate("2024-03-10")); got != 11 {
		t.Errorf("DaysUntil() = %d, want 11", got)
	}
	if got := d.DaysUntil(MustParseDate("2024-02-20")); got != -8 {
		t.Errorf("DaysUntil() = %d, want -8", got)
	}
	if got := MustParseDate("1900-01-01").DaysUntil(MustParseDate("9999-12-31")); got != 2958463 {
		t.Errorf("DaysUntil() across centuries = %d, want 2958463", got)
	}
	if !d.Before(d.AddDays(1)) || d.After(d) || !d.Equal(MustParseDate("2024-02-28")) {
		t.Error("comparison helpers disagree with calendar order")
	}
	if d.Compare(d.AddDays(-1)) != 1 {
		t.Error("Compare() with earlier day should be 1")
	}
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Day Date `json:"day"`
	}

	data, err := json.Marshal(payload{Day: MustParseDate("2024-01-05")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"day":"2024-01-05"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"day":"2024-01-05T18:00:00Z"}`), &p); err != nil {
		t.Fatalf("Unmarshal(timestamp) error = %v", err)
	}
	if p.Day.String() != "2024-01-05" {
		t.Errorf("Unmarshal(timestamp) = %v, want 2024-01-05", p.Day)
	}

	if err := json.Unmarshal([]byte(`{"day":"not-a-date"}`), &p); err == nil {
		t.Error("Unmarshal(garbage) expected error")
	}
	if err := json.Unmarshal([]byte(`{"day":"0001-01-01T00:00:00Z"}`), &p); err == nil {
		t.Error("Unmarshal(year 1 timestamp) expected error")
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-02-05", "2024-02-08")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}
	if !r.IsValid() || r.Nights() != 3 {
		t.Errorf("ParseDateRange() = %v, want 3 valid nights", r)
	}

	if _, err := ParseDateRange("2024-02-05", "soon"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ParseDateRange() with bad end error = %v, want ErrInvalidRange", err)
	}
}
