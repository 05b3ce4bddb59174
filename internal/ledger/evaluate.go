// Package ledger holds the pure reconciliation rules for cash register
// sessions: balance evaluation, closing-case classification, override
// authorization, and grouping of the flat open/close event feed. Nothing in
// this package touches the database or the network — services feed it
// authoritative numbers and persist what it returns.
package ledger

import "github.com/shopspring/decimal"

// Case labels a closed session for display and reporting.
type Case string

const (
	// CaseSale — the session saw sales and the count reconciles at or above
	// the expected balance. An exact count with sales is still a SALE.
	CaseSale Case = "SALE"
	// CaseNoSale — no sales were recorded and the drawer reconciles.
	CaseNoSale Case = "NO_SALE"
	// CaseShorted — the counted amount fell below the expected balance.
	CaseShorted Case = "SHORTED"
)

// Epsilon is the rounding tolerance: a variance within ±0.01 currency units
// is treated as zero so a count is never reported short over float dust.
var Epsilon = decimal.New(1, -2)

// Evaluation is the result of reconciling a closing count.
type Evaluation struct {
	Expected decimal.Decimal
	Variance decimal.Decimal
	Case     Case
}

// Evaluate reconciles a counted closing balance against the opening balance
// plus the recorded sales total. It is deterministic and side-effect free;
// negative inputs are the only error condition.
//
// Expected = opening + sales. Variance = counted − expected: positive means
// over, negative short.
func Evaluate(opening, sales, counted decimal.Decimal) (Evaluation, error) {
	if opening.IsNegative() || sales.IsNegative() || counted.IsNegative() {
		return Evaluation{}, ErrInvalidAmount
	}

	expected := opening.Add(sales)
	variance := counted.Sub(expected)

	eval := Evaluation{Expected: expected, Variance: variance}
	switch {
	case variance.LessThan(Epsilon.Neg()):
		eval.Case = CaseShorted
	case sales.IsZero() && variance.Abs().LessThanOrEqual(Epsilon):
		eval.Case = CaseNoSale
	default:
		eval.Case = CaseSale
	}
	return eval, nil
}
