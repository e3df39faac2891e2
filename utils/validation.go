// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

const codigoPaisHonduras = "+504"

var telefonoE164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

func limpiarTelefono(phone string) string {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	return cleaned
}

// NormalizarTelefono turns a stored client phone into E.164. Local 8 digit
// numbers get the Honduran country code. It reports false when the result is
// not dialable.
func NormalizarTelefono(phone string) (string, bool) {
	cleaned := limpiarTelefono(phone)
	if cleaned == "" {
		return "", false
	}
	if !strings.HasPrefix(cleaned, "+") {
		if len(cleaned) == 8 {
			cleaned = codigoPaisHonduras + cleaned
		} else {
			cleaned = "+" + cleaned
		}
	}
	if !telefonoE164.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}
