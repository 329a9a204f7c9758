package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatBRL formats an integer amount in centavos as a string like
// "R$ 1.234,56". Uses dot as thousands separator and comma as decimal
// separator (pt-BR).
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	reais := cents / 100
	centavos := cents % 100

	s := strconv.FormatInt(reais, 10)

	var b strings.Builder
	// Pre-allocate: digits + separators + prefix + decimals
	b.Grow(len(s) + len(s)/3 + 8)
	if neg {
		b.WriteString("-R$ ")
	} else {
		b.WriteString("R$ ")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	b.WriteByte(',')
	if centavos < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(centavos, 10))

	return b.String()
}

// CentsOf converts a currency amount to whole centavos. Non-finite amounts
// (divisions by zero units) map to zero so they render as "R$ 0,00" instead
// of breaking the display.
func CentsOf(value float64) int64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return int64(math.Round(value * 100))
}
