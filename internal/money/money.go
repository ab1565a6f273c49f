// Package money parses and formats currency amounts held as decimals.
package money

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "EGP"

// ErrInvalidAmount is returned by ParseStrict for malformed input.
var ErrInvalidAmount = errors.New("invalid amount")

var (
	// leading numeric prefix, the way a float parser reads it
	numericPrefix = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)
	strictAmount  = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)$`)
)

// Parse reads an amount from free-form text and never fails.
//
// Every character other than ASCII digits, '-' and '.' is dropped, then the
// longest numeric prefix of what remains is parsed. Currency symbols and
// thousands separators are therefore tolerated, and trailing garbage is
// ignored: "12-34" parses as 12 and "1.2.3" as 1.2. Input with no numeric
// prefix yields zero.
func Parse(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	prefix := numericPrefix.FindString(b.String())
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" || prefix == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAny is Parse for loosely typed values: numbers convert directly,
// strings go through Parse, and anything else (including NaN and
// infinities) is zero.
func ParseAny(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case string:
		return Parse(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParseStrict reads an amount that must be a plain signed decimal number.
// Spaces and ',' thousands separators are allowed; anything else is
// rejected rather than dropped.
func ParseStrict(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(s))
	if !strictAmount.MatchString(clean) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(clean, "+"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// maxMinorUnits is the largest amount, in minor units, go-money can hold.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Format renders d in the given ISO currency, e.g. "$1,234.56" for USD.
// Unknown currency codes, and amounts too large for int64 minor units,
// render as "1234.56 XYZ".
func Format(d decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if code == "" {
		code = DefaultCurrency
	}
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", d.StringFixed(2), code)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return fmt.Sprintf("%s %s", d.StringFixed(int32(cur.Fraction)), code)
	}
	return gomoney.New(minor.IntPart(), code).Display()
}

// FormatFloat is Format for float input; NaN and infinities render as zero.
func FormatFloat(f float64, currency string) string {
	return Format(fromFloat(f), currency)
}

// Fixed renders d with two decimals and no currency, for tables and files.
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
