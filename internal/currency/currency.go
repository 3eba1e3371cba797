package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownRate = errors.New("unknown currency rate")
	ErrInvalid     = errors.New("invalid currency rate")
)

// Rate converts one unit of Code into the base currency.
type Rate struct {
	Code string
	Rate decimal.Decimal
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Cents converts a base-currency amount to whole cents, rounding half away
// from zero.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
