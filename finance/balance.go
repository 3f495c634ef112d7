package finance

import "github.com/shopspring/decimal"

type Balance struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	BankBalance      decimal.Decimal
	TotalSavings     decimal.Decimal
	TotalDebts       decimal.Decimal
	NetWorth         decimal.Decimal
	AvailableToSpend decimal.Decimal
}

// ComputeBalance derives the balance summary. Net worth subtracts debts and
// adds savings; available-to-spend is the bank balance alone.
func ComputeBalance(income, expense decimal.Decimal, savings, debts []decimal.Decimal) Balance {
	bank := income.Sub(expense)
	totalSavings := Sum(savings)
	totalDebts := Sum(debts)
	return Balance{
		TotalIncome:      income,
		TotalExpense:     expense,
		BankBalance:      bank,
		TotalSavings:     totalSavings,
		TotalDebts:       totalDebts,
		NetWorth:         bank.Add(totalSavings).Sub(totalDebts),
		AvailableToSpend: bank,
	}
}

func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
