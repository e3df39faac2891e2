// utils/dates.go
package utils

import (
	"strings"
	"time"
)

const LayoutFecha = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Rango is a half-open [Desde, Hasta) interval of service dates.
type Rango struct {
	Desde time.Time
	Hasta time.Time
}

// ParseRango parses inclusive YYYY-MM-DD bounds. The end day is shifted by one
// so logs dated anywhere on the final day fall inside the interval.
func ParseRango(fechaInicio, fechaFinal string) (Rango, error) {
	fechaInicio = strings.TrimSpace(fechaInicio)
	fechaFinal = strings.TrimSpace(fechaFinal)
	if fechaInicio == "" || fechaFinal == "" {
		return Rango{}, BadRequest("Se requieren ambas fechas")
	}

	desde, err := parseDia(fechaInicio)
	if err != nil {
		return Rango{}, BadRequest("Formato de fecha inválido, use YYYY-MM-DD")
	}
	hasta, err := parseDia(fechaFinal)
	if err != nil {
		return Rango{}, BadRequest("Formato de fecha inválido, use YYYY-MM-DD")
	}
	if hasta.Before(desde) {
		return Rango{}, BadRequest("La fecha final no puede ser anterior a la fecha inicial")
	}

	return Rango{Desde: desde, Hasta: hasta.AddDate(0, 0, 1)}, nil
}

// parseDia accepts a plain date or a full RFC 3339 timestamp and keeps only the
// UTC calendar day.
func parseDia(s string) (time.Time, error) {
	if t, err := time.Parse(LayoutFecha, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return BeginningOfDay(t.UTC()), nil
}
