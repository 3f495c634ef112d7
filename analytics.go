package main

import (
	"net/http"

	"finanzas/db/store"
	"finanzas/finance"

	"github.com/gin-gonic/gin"
)

const (
	defaultTrendMonths = 6
	maxTrendMonths     = 24
	defaultTopLimit    = 5
)

// @Summary Analytics overview
// @Description Current month totals, savings rate and a zero-filled monthly trend, oldest first
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "Months in the trend (default 6)"
// @Success 200 {object} Overview
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/analytics/overview [get]
func getOverview(c *gin.Context) {
	months, err := parseIntQuery(c, "months", defaultTrendMonths)
	if err != nil || months < 1 || months > maxTrendMonths {
		c.JSON(http.StatusBadRequest, gin.H{"error": "months must be between 1 and 24"})
		return
	}

	now := nowFunc().UTC()
	totals, err := queries.MonthlyTotals(c.Request.Context(), store.MonthlyTotalsParams{
		UserID: currentUserID(c),
		From:   finance.MonthStart(now, months-1),
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching monthly totals", err)
		return
	}

	amounts := make([]finance.MonthAmount, 0, len(totals))
	for _, t := range totals {
		amounts = append(amounts, finance.MonthAmount{Month: t.Month, Income: t.Type == store.TypeIncome, Amount: t.Total})
	}
	buckets := finance.MonthlyTrend(now, months, amounts)

	trend := make([]MonthTrend, 0, len(buckets))
	for _, b := range buckets {
		trend = append(trend, MonthTrend{
			Month:   b.Month.Format("2006-01"),
			Income:  money(b.Income),
			Expense: money(b.Expense),
			Net:     money(b.Net()),
		})
	}

	current := buckets[len(buckets)-1]
	c.JSON(http.StatusOK, Overview{
		Month:       current.Month.Format("2006-01"),
		Income:      money(current.Income),
		Expense:     money(current.Expense),
		Net:         money(current.Net()),
		SavingsRate: money(finance.SavingsRate(current.Income, current.Expense)),
		Trend:       trend,
	})
}

// @Summary Category analytics
// @Description Totals per category with their share of the type total
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param type query string false "INCOME or EXPENSE (default EXPENSE)"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {array} CategoryStat
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/analytics/categories [get]
func getCategoryAnalytics(c *gin.Context) {
	typ := store.TypeExpense
	if t := c.Query("type"); t != "" {
		v, err := validateTransactionType(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		typ = v
	}

	shares, ok := categoryShares(c, typ)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, convertCategoryStats(shares))
}

// @Summary Top expense categories
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of categories (default 5)"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {array} CategoryStat
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/analytics/top-categories [get]
func getTopCategories(c *gin.Context) {
	limit, err := parseIntQuery(c, "limit", defaultTopLimit)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
		return
	}

	shares, ok := categoryShares(c, store.TypeExpense)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, convertCategoryStats(finance.TopN(shares, limit)))
}

// categoryShares reads the from/to range and returns the breakdown of typ,
// largest first
func categoryShares(c *gin.Context, typ string) ([]finance.CategoryShare, bool) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	totals, err := queries.SumCategoryTotals(c.Request.Context(), store.SumCategoryTotalsParams{
		UserID: currentUserID(c),
		Type:   typ,
		From:   from,
		To:     to,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching category totals", err)
		return nil, false
	}

	shares := make([]finance.CategoryShare, 0, len(totals))
	for _, t := range totals {
		share := finance.CategoryShare{
			Key:   t.CategoryID.String(),
			Name:  t.CategoryName,
			Total: t.Total,
			Count: t.Count,
		}
		if t.Color != nil {
			share.Color = *t.Color
		}
		shares = append(shares, share)
	}

	return finance.Breakdown(shares), true
}

func convertCategoryStats(shares []finance.CategoryShare) []CategoryStat {
	stats := make([]CategoryStat, 0, len(shares))
	for _, s := range shares {
		stats = append(stats, CategoryStat{
			CategoryID:   s.Key,
			CategoryName: s.Name,
			Color:        s.Color,
			Total:        money(s.Total),
			Count:        s.Count,
			Percentage:   money(s.Percentage),
		})
	}
	return stats
}
