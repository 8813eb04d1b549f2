package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Parse converts a loosely typed upstream amount into a decimal. It accepts
// numeric values and decimal strings (with optional grouping separators and
// a leading currency symbol) and returns zero for nil or garbage input —
// a malformed amount must never abort a statement run.
func Parse(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case float64:
		return decimal.NewFromFloat(val)
	case float32:
		return decimal.NewFromFloat32(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		return parseString(val)
	default:
		return decimal.Zero
	}
}

func parseString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	// Keep digits and '.' only, dropping "$", grouping commas and the like.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero
	}
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var printer = message.NewPrinter(language.English)

// Format renders an amount with exactly two fraction digits and grouping
// separators, e.g. "1,500.00" or "$1,500.00".
func Format(d decimal.Decimal, includeSymbol bool) string {
	neg := d.IsNegative()
	abs := d.Abs()

	s := printer.Sprint(number.Decimal(abs.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	switch {
	case includeSymbol && neg:
		return "-$" + s
	case includeSymbol:
		return "$" + s
	case neg:
		return "-" + s
	default:
		return s
	}
}

// FormatPtr is Format for optional amounts; absence renders as zero.
func FormatPtr(d *decimal.Decimal, includeSymbol bool) string {
	if d == nil {
		return Format(decimal.Zero, includeSymbol)
	}
	return Format(*d, includeSymbol)
}
