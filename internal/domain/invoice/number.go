// Package invoice contiene la lógica pura del consecutivo diario de facturas
// de venta: formato INV-YYYYMMDD-NNNN y cálculo del siguiente número.
package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	numberPrefix = "INV-"
	dayLayout    = "20060102"
)

// DayPrefix devuelve "INV-YYYYMMDD" para el día calendario de t (en su zona horaria).
func DayPrefix(t time.Time) string {
	return numberPrefix + t.Format(dayLayout)
}

// Format construye el número de factura con el consecutivo rellenado a 4 dígitos.
// Por encima de 9999 el ancho crece sin error.
func Format(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", DayPrefix(day), seq)
}

// ParseSequence extrae el consecutivo numérico final de un número de factura.
func ParseSequence(number string) (int, error) {
	i := strings.LastIndex(number, "-")
	if i < 0 || i == len(number)-1 {
		return 0, fmt.Errorf("número de factura sin consecutivo: %q", number)
	}
	n, err := strconv.Atoi(number[i+1:])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("consecutivo inválido en %q", number)
	}
	return n, nil
}

// Next calcula el siguiente número del día a partir del último emitido.
// last vacío significa que aún no hay facturas ese día: se empieza en 1.
func Next(day time.Time, last string) (string, error) {
	if last == "" {
		return Format(day, 1), nil
	}
	if !strings.HasPrefix(last, DayPrefix(day)+"-") {
		return "", fmt.Errorf("la factura %q no pertenece al día %s", last, day.Format(dayLayout))
	}
	seq, err := ParseSequence(last)
	if err != nil {
		return "", err
	}
	return Format(day, seq+1), nil
}

// Greater compara dos números del mismo día. Con relleno fijo el orden
// lexicográfico coincide con el numérico; al superar 4 dígitos manda la longitud.
func Greater(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

// Latest devuelve el mayor número de la lista que pertenece al día, o "" si no hay.
func Latest(day time.Time, numbers []string) string {
	prefix := DayPrefix(day) + "-"
	latest := ""
	for _, n := range numbers {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		if latest == "" || Greater(n, latest) {
			latest = n
		}
	}
	return latest
}
