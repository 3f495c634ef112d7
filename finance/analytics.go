package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryShare is one category's total and its share of the grand total.
type CategoryShare struct {
	Key        string
	Name       string
	Color      string
	Total      decimal.Decimal
	Count      int
	Percentage decimal.Decimal
}

// Breakdown fills in Percentage for each share relative to their sum and
// orders them by total, largest first.
func Breakdown(shares []CategoryShare) []CategoryShare {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Total)
	}
	out := make([]CategoryShare, len(shares))
	copy(out, shares)
	for i := range out {
		out[i].Percentage = GoalPercentage(out[i].Total, total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// TopN returns at most n shares from an already ordered breakdown.
func TopN(shares []CategoryShare, n int) []CategoryShare {
	if n <= 0 || n >= len(shares) {
		return shares
	}
	return shares[:n]
}

// MonthBucket holds income and expense for one calendar month.
type MonthBucket struct {
	Month   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (b MonthBucket) Net() decimal.Decimal {
	return b.Income.Sub(b.Expense)
}

// MonthStart is the first instant of the n-th month before now's month.
func MonthStart(now time.Time, monthsBack int) time.Time {
	y, m, _ := now.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -monthsBack, 0)
}

// MonthAmount is one aggregated amount of a month and transaction kind.
type MonthAmount struct {
	Month  time.Time
	Income bool
	Amount decimal.Decimal
}

// MonthlyTrend buckets amounts into the months months ending with now's
// month, oldest first. Months without data are zero and amounts outside the
// range are ignored.
func MonthlyTrend(now time.Time, months int, amounts []MonthAmount) []MonthBucket {
	if months <= 0 {
		months = 1
	}
	buckets := make([]MonthBucket, months)
	index := make(map[time.Time]int, months)
	for i := 0; i < months; i++ {
		m := MonthStart(now, months-1-i)
		buckets[i] = MonthBucket{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
		index[m] = i
	}
	for _, a := range amounts {
		i, ok := index[MonthStart(a.Month, 0)]
		if !ok {
			continue
		}
		if a.Income {
			buckets[i].Income = buckets[i].Income.Add(a.Amount)
		} else {
			buckets[i].Expense = buckets[i].Expense.Add(a.Amount)
		}
	}
	return buckets
}

// SavingsRate is (income - expense) / income * 100, zero without income.
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expense).Div(income).Mul(hundred).Round(2)
}
