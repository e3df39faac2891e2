package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

const NoDisponible = "N/A"

// ZonaHoraria is the timezone every report timestamp is rendered in.
var ZonaHoraria = cargarZona("America/Tegucigalpa")

func cargarZona(nombre string) *time.Location {
	loc, err := time.LoadLocation(nombre)
	if err != nil {
		// Honduras has no DST.
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

var (
	noDigitos  = regexp.MustCompile(`\D`)
	horaSimple = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)
)

var layoutsTimestamp = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
}

// FormatearTelefono renders 8 digit numbers as NNNN-NNNN and returns anything
// else as it was stored.
func FormatearTelefono(tel string) string {
	if strings.TrimSpace(tel) == "" {
		return NoDisponible
	}
	digitos := noDigitos.ReplaceAllString(tel, "")
	if len(digitos) == 8 {
		return digitos[:4] + "-" + digitos[4:]
	}
	return tel
}

// FormatearFecha renders the UTC calendar day as DD/MM/YYYY.
func FormatearFecha(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02/01/2006")
}

// FormatearFechaHora renders t as "DD/MM/YYYY, HH:MM" on a 24 hour clock.
func FormatearFechaHora(t time.Time) string {
	return t.In(ZonaHoraria).Format("02/01/2006, 15:04")
}

// FormatearHora accepts a bare HH:MM[:SS] wall clock time, taken as today in
// ZonaHoraria, or a full timestamp. Anything unparseable renders as N/A.
func FormatearHora(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoDisponible
	}

	if m := horaSimple.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		if h > 23 || min > 59 || sec > 59 {
			return NoDisponible
		}
		y, mo, d := time.Now().In(ZonaHoraria).Date()
		return time.Date(y, mo, d, h, min, sec, 0, ZonaHoraria).Format("15:04")
	}

	for _, layout := range layoutsTimestamp {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(ZonaHoraria).Format("15:04")
		}
	}
	return NoDisponible
}

// FormatearMonto renders an amount in lempiras, e.g. "Lps. 1,150.00".
func FormatearMonto(monto decimal.Decimal) string {
	if monto.IsZero() {
		return NoDisponible
	}

	signo := ""
	if monto.IsNegative() {
		signo = "-"
		monto = monto.Abs()
	}

	partes := strings.SplitN(monto.StringFixed(2), ".", 2)
	entero := partes[0]
	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "Lps. " + signo + b.String() + "." + partes[1]
}
