package cli

import (
	"errors"
	"math"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1500, "$1,500.00"},
		{1234567.891, "$1,234,567.89"},
		{-50, "-$50.00"},
		{math.NaN(), "$-"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompactMoney(t *testing.T) {
	if got := FormatCompactMoney(1234.5); got != "$1,235" {
		t.Errorf("got %q, want $1,235", got)
	}
	if got := FormatCompactMoney(-2500); got != "-$2,500" {
		t.Errorf("got %q, want -$2,500", got)
	}
	if got := FormatCompactMoney(99.9); got != "$99.90" {
		t.Errorf("got %q, want $99.90", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(25); got != "25.0%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(9.999); got != "10.0%" {
		t.Errorf("got %q", got)
	}
	if got := FormatShare(53.33); got != "53%" {
		t.Errorf("FormatShare = %q", got)
	}
	if got := FormatShare(4.25); got != "4.2%" && got != "4.3%" {
		t.Errorf("FormatShare = %q", got)
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-50, 0}, {0, 0}, {42, 42}, {100, 100}, {250, 100}, {math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ClampPercent(tt.in); got != tt.want {
			t.Errorf("ClampPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"1200", 1200},
		{" 1,200.50 ", 1200.5},
		{"$80", 80},
		{"1_000", 1000},
		{"-5", -5},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"abc", "NaN", "Inf", "12$"} {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrBadAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrBadAmount", bad, err)
		}
	}
}
