package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown(t *testing.T) {
	shares := Breakdown([]CategoryShare{
		{Name: "Transporte", Total: dec("250")},
		{Name: "Alimentación", Total: dec("750")},
	})

	require.Len(t, shares, 2)
	assert.Equal(t, "Alimentación", shares[0].Name)
	assert.True(t, shares[0].Percentage.Equal(dec("75")))
	assert.True(t, shares[1].Percentage.Equal(dec("25")))

	assert.Len(t, TopN(shares, 1), 1)
	assert.Len(t, TopN(shares, 10), 2)
	assert.Empty(t, Breakdown(nil))
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2024, time.March, 18, 10, 0, 0, 0, time.UTC)

	trend := MonthlyTrend(now, 3, []MonthAmount{
		{Month: day(2024, time.January, 1), Income: true, Amount: dec("1000")},
		{Month: day(2024, time.March, 1), Income: false, Amount: dec("300")},
		{Month: day(2024, time.March, 1), Income: true, Amount: dec("500")},
		{Month: day(2023, time.December, 1), Income: true, Amount: dec("999")},
	})

	require.Len(t, trend, 3)
	assert.Equal(t, day(2024, time.January, 1), trend[0].Month)
	assert.True(t, trend[0].Income.Equal(dec("1000")))
	assert.True(t, trend[1].Income.IsZero())
	assert.True(t, trend[1].Expense.IsZero())
	assert.Equal(t, day(2024, time.March, 1), trend[2].Month)
	assert.True(t, trend[2].Net().Equal(dec("200")))
}

func TestSavingsRate(t *testing.T) {
	assert.True(t, SavingsRate(dec("1000"), dec("750")).Equal(dec("25")))
	assert.True(t, SavingsRate(dec("0"), dec("750")).IsZero())
}
