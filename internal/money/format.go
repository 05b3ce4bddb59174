package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount is not a valid non-negative number")

// Format renders an amount with exactly two decimal places for display.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Parse reads a user-entered amount. Negative amounts are rejected; anything
// that survived Format round-trips within half a cent.
func Parse(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
