package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  string
		hasError  bool
	}{
		{"simple decimal", "123.45", "123.45", false},
		{"negative decimal", "-123.45", "-123.45", false},
		{"leading plus", "+8.00", "8", false},
		{"yen sign", "¥25.00", "25", false},
		{"full-width yen sign", "￥25.00", "25", false},
		{"thousands separator", "1,234.50", "1234.5", false},
		{"parenthesized negative", "(¥1,234.50)", "-1234.5", false},
		{"full-width parentheses", "（１２.５）", "-12.5", false},
		{"spreadsheet formula wrapper", "=\"12.00\"", "12", false},
		{"currency code", "CNY 66.6", "66.6", false},
		{"yuan suffix", "30元", "30", false},
		{"surrounding spaces", "  9.9  ", "9.9", false},
		{"unicode minus", "\u22125.5", "-5.5", false},
		{"empty", "", "", true},
		{"only symbol", "¥", "", true},
		{"non-numeric", "abc", "", true},
		{"two dots", "1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAmount(tt.amountStr)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			expected := decimal.RequireFromString(tt.expected)
			assert.True(t, expected.Equal(result), "expected %s, got %s", expected, result)
		})
	}
}

func TestParseAmount_EmptyIsSentinel(t *testing.T) {
	_, err := ParseAmount("  ")
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50", FormatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.True(t, IsNegative(decimal.NewFromInt(-1)))
	assert.False(t, IsNegative(decimal.Zero))
}
