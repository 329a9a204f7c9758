package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ToNumber parses free-form numeric text permissively: comma decimals are
// accepted, anything non-numeric is stripped and unparseable input becomes 0.
// Input fields never surface a parse error.
func ToNumber(text string) float64 {
	if text == "" {
		return 0
	}

	normalized := strings.ReplaceAll(text, ",", ".")
	var b strings.Builder
	for _, r := range normalized {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// ParseCurrencyText extracts the digits from a currency input ("R$ 12,34")
// and returns the amount in centavos. Unparseable input becomes 0.
func ParseCurrencyText(text string) int64 {
	digits := keepDigits(text)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParsePercentText extracts the digits from a percentage input ("30,00%")
// and returns the percentage with its two implied decimals restored.
func ParsePercentText(text string) float64 {
	digits := keepDigits(text)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / 100
}

func keepDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseNoteDate parses a receipt emission date in "DD/MM/YYYY" format.
// Used only for ordering the notes list; everywhere else the date stays an
// opaque display string.
func ParseNoteDate(s string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid note date %q: %w", s, err)
	}
	return t, nil
}
