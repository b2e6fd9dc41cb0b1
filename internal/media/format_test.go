package media

import (
	"math"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00"},
		{"forty-two seconds", 42, "00:42"},
		{"fractional truncates not rounds", 42.9, "00:42"},
		{"one minute", 60, "01:00"},
		{"just under a minute", 59.999, "00:59"},
		{"over an hour keeps minutes", 3600, "60:00"},
		{"long movie", 7325.5, "122:05"},
		{"negative formats as zero", -10, "00:00"},
		{"nan formats as zero", math.NaN(), "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%v) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want float64
	}{
		{"plain number", "12.34", 12.34},
		{"trailing newline", "42.000000\n", 42},
		{"not available", "N/A\n", 0},
		{"empty output", "", 0},
		{"garbage", "duration=??", 0},
		{"negative clamps to zero", "-3.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.out); got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.out, got, tt.want)
			}
		})
	}
}
