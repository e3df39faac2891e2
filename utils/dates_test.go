package utils

import (
	"net/http"
	"testing"
	"time"
)

func TestParseRango(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		inicio     string
		final      string
		wantDesde  time.Time
		wantHasta  time.Time
		wantStatus int
	}{
		{name: "same day", inicio: "2024-03-05", final: "2024-03-05", wantDesde: day(2024, 3, 5), wantHasta: day(2024, 3, 6)},
		{name: "month end", inicio: "2024-02-01", final: "2024-02-29", wantDesde: day(2024, 2, 1), wantHasta: day(2024, 3, 1)},
		{name: "rfc3339 keeps the day", inicio: "2024-03-05T18:00:00Z", final: "2024-03-07T01:00:00Z", wantDesde: day(2024, 3, 5), wantHasta: day(2024, 3, 8)},
		{name: "missing start", final: "2024-03-05", wantStatus: http.StatusBadRequest},
		{name: "missing end", inicio: "2024-03-05", wantStatus: http.StatusBadRequest},
		{name: "bad format", inicio: "05/03/2024", final: "2024-03-05", wantStatus: http.StatusBadRequest},
		{name: "end before start", inicio: "2024-03-06", final: "2024-03-05", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRango(tt.inicio, tt.final)
			if tt.wantStatus != 0 {
				if err == nil {
					t.Fatalf("expected error, got %+v", r)
				}
				if StatusOf(err) != tt.wantStatus {
					t.Errorf("status = %d, want %d", StatusOf(err), tt.wantStatus)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !r.Desde.Equal(tt.wantDesde) || !r.Hasta.Equal(tt.wantHasta) {
				t.Errorf("got [%s, %s), want [%s, %s)", r.Desde, r.Hasta, tt.wantDesde, tt.wantHasta)
			}
		})
	}
}

func TestParseRangoMessages(t *testing.T) {
	_, err := ParseRango("", "2024-03-05")
	if err == nil || err.Error() != "Se requieren ambas fechas" {
		t.Errorf("got %v", err)
	}
	_, err = ParseRango("2024-13-01", "2024-03-05")
	if err == nil || err.Error() != "Formato de fecha inválido, use YYYY-MM-DD" {
		t.Errorf("got %v", err)
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(21, 2, 10)
	if m.TotalPages != 3 || m.Total != 21 || m.Page != 2 || m.Limit != 10 {
		t.Errorf("unexpected meta %+v", m)
	}
	if NewMeta(0, 1, 10).TotalPages != 0 {
		t.Error("empty result should have zero pages")
	}
}
