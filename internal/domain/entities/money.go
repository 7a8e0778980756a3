package entities

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept on every money value.
const MoneyScale = 2

var ErrInvalidMoney = errors.New("invalid money value")

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to the currency minor unit. decimal.Round rounds half away
// from zero, which is half-up for the non-negative amounts handled here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// ParseMoney parses a decimal string and rejects values with more than two
// fractional digits.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidMoney
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return decimal.Zero, ErrInvalidMoney
	}
	return d, nil
}

// FormatMoney renders a money value with exactly two fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// PercentOf returns amount * pct / 100 without rounding.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}
