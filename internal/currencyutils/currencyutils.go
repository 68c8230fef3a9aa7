// Package currencyutils parses and formats the money amounts found in
// platform exports.
package currencyutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyAmount is returned for blank amount cells.
var ErrEmptyAmount = errors.New("empty amount")

var amountNoise = strings.NewReplacer(
	",", "",
	"¥", "",
	"$", "",
	"€", "",
	"£", "",
	"=", "",
	"\"", "",
	"'", "",
	"CNY", "",
	"RMB", "",
	"元", "",
	" ", "",
	"\u2212", "-",
)

// ParseAmount parses an exported amount cell. It accepts full-width digits
// and punctuation, currency symbols and codes, thousands separators and
// spreadsheet ="..." wrappers. A parenthesized value is negative.
//
// Examples: "¥1,234.50" -> 1234.50, "(¥1,234.50)" -> -1234.50,
// "=\"12.00\"" -> 12.00, "１２.５" -> 12.5.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount reduces an amount cell to a string decimal.NewFromString
// accepts.
func StandardizeAmount(amountStr string) string {
	// NFKC turns ￥ into ¥ and full-width digits and parentheses into ASCII.
	s := norm.NFKC.String(strings.TrimSpace(amountStr))
	s = amountNoise.Replace(s)
	s = strings.Join(strings.Fields(s), "")

	negative := false
	if strings.Contains(s, "(") {
		negative = true
		s = strings.NewReplacer("(", "", ")", "").Replace(s)
	}
	s = strings.TrimPrefix(s, "+")
	if negative && s != "" && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// FormatAmount renders an amount with two decimals and no separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// IsNegative checks if an amount is negative
func IsNegative(amount decimal.Decimal) bool {
	return amount.LessThan(decimal.Zero)
}
