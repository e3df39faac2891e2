package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatearTelefono(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"eight digits", "99887766", "9988-7766"},
		{"eight digits with separators", "9988 7766", "9988-7766"},
		{"international kept as stored", "+50499887766", "+50499887766"},
		{"short kept as stored", "1234", "1234"},
		{"empty", "", NoDisponible},
		{"blank", "   ", NoDisponible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatearTelefono(tt.in); got != tt.want {
				t.Errorf("FormatearTelefono(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatearFecha(t *testing.T) {
	if got := FormatearFecha(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); got != "05/03/2024" {
		t.Errorf("got %q, want 05/03/2024", got)
	}
	if got := FormatearFecha(time.Time{}); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
}

func TestFormatearFechaHora(t *testing.T) {
	// 20:15 UTC is 14:15 in Tegucigalpa.
	got := FormatearFechaHora(time.Date(2024, 3, 5, 20, 15, 0, 0, time.UTC))
	if got != "05/03/2024, 14:15" {
		t.Errorf("got %q", got)
	}
}

func TestFormatearHora(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare time", "14:30", "14:30"},
		{"bare time with seconds", "08:05:59", "08:05"},
		{"out of range", "25:00", NoDisponible},
		{"utc timestamp", "2024-03-05T20:15:00Z", "14:15"},
		{"garbage", "not-a-time", NoDisponible},
		{"empty", "", NoDisponible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatearHora(tt.in); got != tt.want {
				t.Errorf("FormatearHora(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatearMonto(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1150", "Lps. 1,150.00"},
		{"1234567.891", "Lps. 1,234,567.89"},
		{"99.5", "Lps. 99.50"},
		{"-2500", "Lps. -2,500.00"},
		{"0", NoDisponible},
	}
	for _, tt := range tests {
		if got := FormatearMonto(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatearMonto(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizarTelefono(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"9988-7766", "+50499887766", true},
		{"(504) 9988 7766", "+50499887766", true},
		{"+1 555 123 4567", "+15551234567", true},
		{"123", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizarTelefono(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizarTelefono(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
