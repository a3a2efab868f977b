package money

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// ParseCurrency parses a free-text currency string ("$1,200,000", "1200000")
// into a numeric value. Everything except digits, '.' and '-' is stripped
// before parsing. Suffixes like "15M" are NOT interpreted here; the editing
// path expands them via ExpandSuffix before the value reaches storage.
func ParseCurrency(input string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(input, "")
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseCurrencyPtr is ParseCurrency for nullable columns: nil when the input
// is empty or non-numeric.
func ParseCurrencyPtr(input string) *float64 {
	v, ok := ParseCurrency(input)
	if !ok {
		return nil
	}
	return &v
}

var suffixMultipliers = map[byte]decimal.Decimal{
	'k': decimal.New(1, 3),
	'm': decimal.New(1, 6),
	'b': decimal.New(1, 9),
}

// ExpandSuffix expands a trailing K/M/B magnitude suffix ("15M" -> "15000000").
// Inputs without a recognized suffix pass through unchanged.
func ExpandSuffix(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return input
	}
	last := s[len(s)-1] | 0x20
	mult, ok := suffixMultipliers[last]
	if !ok {
		return input
	}
	cleaned := nonNumeric.ReplaceAllString(s[:len(s)-1], "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return input
	}
	return d.Mul(mult).String()
}

// Layouts tried in order by NormalizeDate. Month-only forms resolve to the
// first day of the month.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01",
	"Jan 2006",
	"January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"01/02/2006",
	"1/2/2006",
}

// NormalizeDate normalizes a date string to ISO YYYY-MM-DD form using a fixed
// layout list, so inputs like "Jan 2024" resolve deterministically to
// "2024-01-01" regardless of platform parsing quirks.
func NormalizeDate(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return t.UTC().Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("unrecognized date %q", input)
}
