package main

import (
	"context"
	"net/http"

	"finanzas/db/store"
	"finanzas/finance"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance handler functions

// @Summary Get balance
// @Description Bank balance, savings, debts and net worth recomputed from the user's rows
// @Tags balance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Balance
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/balance [get]
func getBalance(c *gin.Context) {
	balance, err := computeBalance(c.Request.Context(), queries, currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error calculating balance", err)
		return
	}
	c.JSON(http.StatusOK, convertBalance(balance))
}

func computeBalance(ctx context.Context, q store.Querier, userID uuid.UUID) (finance.Balance, error) {
	totals, err := q.SumTransactionsByType(ctx, store.SumTransactionsByTypeParams{UserID: userID})
	if err != nil {
		return finance.Balance{}, err
	}
	income, expense := splitTypeTotals(totals)

	goals, err := q.ListGoals(ctx, userID)
	if err != nil {
		return finance.Balance{}, err
	}
	savings := make([]decimal.Decimal, 0, len(goals))
	for _, g := range goals {
		savings = append(savings, g.CurrentAmount)
	}

	debts, err := q.ListDebts(ctx, userID)
	if err != nil {
		return finance.Balance{}, err
	}
	remaining := make([]decimal.Decimal, 0, len(debts))
	for _, d := range debts {
		remaining = append(remaining, d.RemainingAmount)
	}

	return finance.ComputeBalance(income, expense, savings, remaining), nil
}

func splitTypeTotals(totals []store.TypeTotal) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range totals {
		switch t.Type {
		case store.TypeIncome:
			income = income.Add(t.Total)
		case store.TypeExpense:
			expense = expense.Add(t.Total)
		}
	}
	return income, expense
}
