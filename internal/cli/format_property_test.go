package cli

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFormatIndianCurrencyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("always carries the rupee sign and two decimals", prop.ForAll(
		func(amount float64) bool {
			s := FormatIndianCurrency(amount)
			if !strings.Contains(s, "₹") {
				return false
			}
			dot := strings.LastIndex(s, ".")
			return dot >= 0 && len(s)-dot-1 == 2
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("negative amounts get a leading minus", prop.ForAll(
		func(amount float64) bool {
			return strings.HasPrefix(FormatIndianCurrency(-amount), "-")
		},
		gen.Float64Range(0.01, 1e9),
	))

	properties.Property("digit content survives grouping", prop.ForAll(
		func(n int64) bool {
			s := FormatQuantity(n)
			stripped := strings.ReplaceAll(strings.TrimPrefix(s, "-"), ",", "")
			plain := strings.TrimPrefix(formatPlain(n), "-")
			return stripped == plain
		},
		gen.Int64Range(0, 1e15),
	))

	properties.TestingRun(t)
}

func formatPlain(n int64) string {
	if n < 0 {
		return "-" + formatPlain(-n)
	}
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestFormatIndianCurrencyGrouping(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatIndianCurrency(0))
	assert.Equal(t, "₹999.00", FormatIndianCurrency(999))
	assert.Equal(t, "₹1,000.00", FormatIndianCurrency(1000))
	assert.Equal(t, "₹1,00,000.00", FormatIndianCurrency(100000))
	assert.Equal(t, "₹1,00,00,000.00", FormatIndianCurrency(10000000))
	assert.Equal(t, "-₹1,272.45", FormatIndianCurrency(-1272.45))
}

func TestFormatPercentAndPnL(t *testing.T) {
	assert.Equal(t, "+1.50%", FormatPercent(1.5))
	assert.Equal(t, "-0.65%", FormatPercent(-0.65))
	assert.Equal(t, "0.00%", FormatPercent(0))

	assert.Equal(t, "+₹4,373.40", FormatPnL(4373.40))
	assert.Equal(t, "-₹236.18", FormatPnL(-236.18))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "₹99,999.00", FormatCompact(99999))
	assert.Equal(t, "1.00 L", FormatCompact(100000))
	assert.Equal(t, "2.50 Cr", FormatCompact(25000000))
	assert.Equal(t, "-1.50 L", FormatCompact(-150000))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "+12.55 (+0.68%)", FormatChange(12.55, 0.68))
	assert.Equal(t, "-8.30 (-0.65%)", FormatChange(-8.30, -0.65))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "very lo...", TruncateString("very long string", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}
