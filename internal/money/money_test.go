package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.50", "1234.5"},
		{"EGP 1,234.50", "1234.5"},
		{"$ 12", "12"},
		{"-45.10", "-45.1"},
		{"-$45", "-45"},
		{".5", "0.5"},
		{"-.5", "-0.5"},
		{"12.", "12"},
		// lossy: the numeric prefix wins
		{"12-34", "12"},
		{"1.2.3", "1.2"},
		{"--5", "0"},
		{"-", "0"},
		{"", "0"},
		{"abc", "0"},
		{"1e3", "13"},
	}
	for _, tt := range tests {
		got := Parse(tt.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "Parse(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestParseAny(t *testing.T) {
	assert.True(t, ParseAny(12.5).Equal(decimal.RequireFromString("12.5")))
	assert.True(t, ParseAny(7).Equal(decimal.NewFromInt(7)))
	assert.True(t, ParseAny(int64(-3)).Equal(decimal.NewFromInt(-3)))
	assert.True(t, ParseAny("1,000").Equal(decimal.NewFromInt(1000)))
	assert.True(t, ParseAny(math.NaN()).IsZero())
	assert.True(t, ParseAny(math.Inf(1)).IsZero())
	assert.True(t, ParseAny(nil).IsZero())
	assert.True(t, ParseAny(struct{}{}).IsZero())
}

func TestParseStrict(t *testing.T) {
	good := map[string]string{
		"1234.50":   "1234.5",
		"1,234.50":  "1234.5",
		" 7 ":       "7",
		"-0.25":     "-0.25",
		"+3":        "3",
		"20 000.00": "20000",
	}
	for in, want := range good {
		got, err := ParseStrict(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), in)
	}

	for _, in := range []string{"", "12-34", "1.2.3", "$12", "1e3", "abc", "12.", "-"} {
		_, err := ParseStrict(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.56", Format(decimal.RequireFromString("1234.56"), "USD"))
	assert.Equal(t, "-$1,234.56", Format(decimal.RequireFromString("-1234.56"), "usd"))
	assert.Equal(t, "$0.01", Format(decimal.RequireFromString("0.005"), "USD"))
	assert.Equal(t, "$0.00", Format(decimal.Decimal{}, "USD"))
	assert.Equal(t, "10.00 XYZ", Format(decimal.NewFromInt(10), "XYZ"))
	assert.NotEmpty(t, Format(decimal.NewFromInt(10), ""))
}

func TestFormat_BeyondInt64MinorUnits(t *testing.T) {
	huge := decimal.RequireFromString("92233720368547758.08")
	assert.Equal(t, "92233720368547758.08 USD", Format(huge, "USD"))
	assert.Equal(t, "-92233720368547758.08 USD", Format(huge.Neg(), "USD"))

	// The largest representable amount still goes through the currency formatter.
	edge := decimal.RequireFromString("92233720368547758.07")
	assert.Equal(t, "$92,233,720,368,547,758.07", Format(edge, "USD"))

	assert.Equal(t, "1000000000000000000000.00 USD", Format(decimal.RequireFromString("1e21"), "USD"))
}

func TestFormatFloat(t *testing.T) {
	zero := Format(decimal.Zero, "USD")
	assert.Equal(t, zero, FormatFloat(math.NaN(), "USD"))
	assert.Equal(t, zero, FormatFloat(math.Inf(-1), "USD"))
	assert.Equal(t, "$2.50", FormatFloat(2.5, "USD"))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "20000.00", Fixed(decimal.NewFromInt(20000)))
	assert.Equal(t, "-0.02", Fixed(decimal.RequireFromString("-0.02")))
}
