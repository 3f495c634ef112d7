package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNonPositiveAmount = errors.New("amount must be greater than 0")

// GoalState is the mutable part of a savings goal.
type GoalState struct {
	Target    decimal.Decimal
	Current   decimal.Decimal
	Completed bool
}

// Contribute adds amount to the goal. There is no upper clamp; the goal is
// completed once current reaches target.
func Contribute(g GoalState, amount decimal.Decimal) (GoalState, error) {
	if !amount.IsPositive() {
		return g, ErrNonPositiveAmount
	}
	g.Current = g.Current.Add(amount)
	g.Completed = g.Current.GreaterThanOrEqual(g.Target)
	return g, nil
}

// GoalPercentage is current / target * 100 rounded to 2 places.
func GoalPercentage(current, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return current.Div(target).Mul(hundred).Round(2)
}

// PayDebt reduces the remaining balance, never below zero.
func PayDebt(remaining, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return remaining, ErrNonPositiveAmount
	}
	left := remaining.Sub(amount)
	if left.IsNegative() {
		return decimal.Zero, nil
	}
	return left, nil
}
