package model

import (
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
		{"10/06/2024", Date{2024, time.June, 10}, false},
		{" 29/02/2024 ", Date{2024, time.February, 29}, false},
		{"31/12/1999", Date{1999, time.December, 31}, false},
		{"29/02/2023", Date{}, true},
		{"31/04/2024", Date{}, true},
		{"1/6/2024", Date{}, true},
		{"10-06-2024", Date{}, true},
		{"10/13/2024", Date{}, true},
		{"00/06/2024", Date{}, true},
		{"aa/06/2024", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDate) {
					t.Fatalf("ParseDate(%q) error = %v, want ErrMalformedDate", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateStringRoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 1)
	if got := d.String(); got != "01/06/2024" {
		t.Fatalf("String() = %q", got)
	}
	back, err := ParseDate(d.String())
	if err != nil || back != d {
		t.Errorf("ParseDate(String()) = %v, %v", back, err)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)

	if got := d.AddDays(1); got != NewDate(2024, time.February, 29) {
		t.Errorf("AddDays(1) = %s", got)
	}
	if got := d.AddDays(2); got != NewDate(2024, time.March, 1) {
		t.Errorf("AddDays(2) = %s", got)
	}
	if got := NewDate(2024, time.January, 31).AddMonths(1); got != NewDate(2024, time.February, 1) {
		t.Errorf("AddMonths(1) = %s, want 01/02/2024", got)
	}
	if got := NewDate(2024, time.January, 15).AddMonths(-1); got != NewDate(2023, time.December, 1) {
		t.Errorf("AddMonths(-1) = %s, want 01/12/2023", got)
	}
	if !d.Before(d.AddDays(1)) || !d.After(d.AddDays(-1)) || d.Compare(d) != 0 {
		t.Error("ordering is inconsistent")
	}
	if got := NewDate(2024, time.January, 32); got != NewDate(2024, time.February, 1) {
		t.Errorf("NewDate did not normalize: %s", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{2100, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := NewDate(tt.year, tt.month, 1).DaysInMonth(); got != tt.want {
			t.Errorf("DaysInMonth(%d-%02d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	wed := NewDate(2024, time.June, 12)
	if got := wed.StartOfWeek(time.Monday); got != NewDate(2024, time.June, 10) {
		t.Errorf("Monday start = %s", got)
	}
	if got := wed.StartOfWeek(time.Sunday); got != NewDate(2024, time.June, 9) {
		t.Errorf("Sunday start = %s", got)
	}
	mon := NewDate(2024, time.June, 10)
	if got := mon.StartOfWeek(time.Monday); got != mon {
		t.Errorf("Monday is its own week start, got %s", got)
	}
}
