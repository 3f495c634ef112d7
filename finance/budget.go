package finance

import "github.com/shopspring/decimal"

const (
	BandNormal   = "normal"
	BandWarning  = "warning"
	BandExceeded = "exceeded"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

// BudgetProgress is derived on every read and never stored.
type BudgetProgress struct {
	Amount     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	Status     string
}

// ComputeBudgetProgress compares spending against the budgeted amount.
// Percentage is not capped and Remaining goes negative on overrun. Status is
// banded on the exact ratio; only the reported Percentage is rounded.
func ComputeBudgetProgress(amount, spent decimal.Decimal) BudgetProgress {
	pct := decimal.Zero
	if amount.IsPositive() {
		pct = spent.Div(amount).Mul(hundred)
	}
	return BudgetProgress{
		Amount:     amount,
		Spent:      spent,
		Remaining:  amount.Sub(spent),
		Percentage: pct.Round(2),
		Status:     Band(pct),
	}
}

// Band classifies a budget percentage for display.
func Band(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return BandExceeded
	case pct.GreaterThanOrEqual(warningThreshold):
		return BandWarning
	default:
		return BandNormal
	}
}
