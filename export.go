package main

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"finanzas/db/store"
	"finanzas/export"
	"finanzas/finance"

	"github.com/gin-gonic/gin"
)

const csvContentType = "text/csv; charset=utf-8"

// Export handler functions

// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file "CSV download"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/export/transactions/csv [get]
func exportTransactionsCSV(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, err := queries.ListTransactions(c.Request.Context(), store.ListTransactionsParams{
		UserID: currentUserID(c),
		From:   from,
		To:     to,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching transactions", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(&buf, transactionRows(transactions)); err != nil {
		respondDatabaseError(c, "Error writing CSV", err)
		return
	}
	sendAttachment(c, fmt.Sprintf("transacciones_%s.csv", formatDate(today())), csvContentType, buf.Bytes())
}

// @Summary Export debts as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV download"
// @Router /api/export/debts/csv [get]
func exportDebtsCSV(c *gin.Context) {
	debts, err := queries.ListDebts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching debts", err)
		return
	}

	rows := make([]export.DebtRow, 0, len(debts))
	for _, d := range debts {
		rows = append(rows, export.DebtRow{
			Name:         d.Name,
			Creditor:     d.Creditor,
			Total:        d.TotalAmount,
			Remaining:    d.RemainingAmount,
			InterestRate: d.InterestRate,
			DueDate:      d.DueDate,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteDebtsCSV(&buf, rows); err != nil {
		respondDatabaseError(c, "Error writing CSV", err)
		return
	}
	sendAttachment(c, fmt.Sprintf("deudas_%s.csv", formatDate(today())), csvContentType, buf.Bytes())
}

// @Summary Export budgets as CSV
// @Description Each budget with its progress in the current period
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV download"
// @Router /api/export/budgets/csv [get]
func exportBudgetsCSV(c *gin.Context) {
	ctx := c.Request.Context()
	budgets, err := queries.ListBudgets(ctx, currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching budgets", err)
		return
	}

	now := nowFunc()
	rows := make([]export.BudgetRow, 0, len(budgets))
	for _, b := range budgets {
		status, err := budgetProgress(ctx, queries, b, now)
		if err != nil {
			respondDatabaseError(c, "Error computing budget progress", err)
			return
		}
		rows = append(rows, export.BudgetRow{
			Category:    b.CategoryName,
			Period:      b.Period,
			PeriodStart: status.window.Start,
			PeriodEnd:   status.window.End,
			Amount:      status.progress.Amount,
			Spent:       status.progress.Spent,
			Remaining:   status.progress.Remaining,
			Percentage:  status.progress.Percentage,
			Status:      status.progress.Status,
		})
	}

	var buf bytes.Buffer
	if err := export.WriteBudgetsCSV(&buf, rows); err != nil {
		respondDatabaseError(c, "Error writing CSV", err)
		return
	}
	sendAttachment(c, fmt.Sprintf("presupuestos_%s.csv", formatDate(today())), csvContentType, buf.Bytes())
}

// @Summary Monthly PDF report
// @Description Summary figures, transactions and expense breakdown of one month
// @Tags export
// @Produce application/pdf
// @Security BearerAuth
// @Param month query int false "Month (1-12), defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {file} file "PDF download"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/export/monthly-report [get]
func exportMonthlyReport(c *gin.Context) {
	month, year, err := parseMonthYear(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	user, err := queries.GetUserByID(ctx, userID)
	if err != nil {
		respondDatabaseError(c, "Error fetching user", err)
		return
	}

	window := finance.MonthWindow(year, time.Month(month))
	// store date filters are inclusive
	last := window.End.AddDate(0, 0, -1)
	transactions, err := queries.ListTransactions(ctx, store.ListTransactionsParams{
		UserID: userID,
		From:   &window.Start,
		To:     &last,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching transactions", err)
		return
	}
	totals, err := queries.SumTransactionsByType(ctx, store.SumTransactionsByTypeParams{
		UserID: userID,
		From:   &window.Start,
		To:     &last,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching totals", err)
		return
	}
	categoryTotals, err := queries.SumCategoryTotals(ctx, store.SumCategoryTotalsParams{
		UserID: userID,
		Type:   store.TypeExpense,
		From:   &window.Start,
		To:     &last,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching category totals", err)
		return
	}
	balance, err := computeBalance(ctx, queries, userID)
	if err != nil {
		respondDatabaseError(c, "Error calculating balance", err)
		return
	}

	shares := make([]finance.CategoryShare, 0, len(categoryTotals))
	for _, t := range categoryTotals {
		shares = append(shares, finance.CategoryShare{Key: t.CategoryID.String(), Name: t.CategoryName, Total: t.Total, Count: t.Count})
	}
	categories := make([]export.CategoryRow, 0, len(shares))
	for _, s := range finance.Breakdown(shares) {
		categories = append(categories, export.CategoryRow{Name: s.Name, Total: s.Total, Percentage: s.Percentage})
	}

	income, expense := splitTypeTotals(totals)
	pdf, err := export.BuildMonthlyReportPDF(export.MonthlyReport{
		Year:         year,
		Month:        time.Month(month),
		UserName:     user.Name,
		Currency:     user.Settings.Currency,
		Income:       income,
		Expense:      expense,
		NetWorth:     balance.NetWorth,
		Transactions: transactionRows(transactions),
		Categories:   categories,
	})
	if err != nil {
		respondDatabaseError(c, "Error building report", err)
		return
	}

	filename := fmt.Sprintf("reporte_%s_%d.pdf", export.MonthName(time.Month(month)), year)
	sendAttachment(c, filename, "application/pdf", pdf)
}

func transactionRows(transactions []store.Transaction) []export.TransactionRow {
	rows := make([]export.TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, export.TransactionRow{
			Date:        t.Date,
			Type:        t.Type,
			Category:    t.CategoryName,
			Description: t.Description,
			Amount:      t.Amount,
			Currency:    t.Currency,
		})
	}
	return rows
}

func sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
