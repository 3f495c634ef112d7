package main

import (
	"context"
	"net/http"
	"time"

	"finanzas/db/store"
	"finanzas/finance"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type budgetRequest struct {
	CategoryID string          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"number"`
	Period     string          `json:"period"`
	StartDate  string          `json:"start_date"`
}

// @Summary Get budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Budget
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/budgets [get]
func getBudgets(c *gin.Context) {
	dbBudgets, err := queries.ListBudgets(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching budgets", err)
		return
	}

	budgets := make([]Budget, 0, len(dbBudgets))
	for _, b := range dbBudgets {
		budgets = append(budgets, convertBudget(b))
	}
	c.JSON(http.StatusOK, budgets)
}

// @Summary Create budget
// @Description Spending cap for an expense category; start_date defaults to today
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param budget body budgetRequest true "Budget data"
// @Success 201 {object} Budget
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/budgets [post]
func createBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateBudgetRequest(c, req)
	if !ok {
		return
	}

	budget, err := queries.CreateBudget(c.Request.Context(), params)
	if err != nil {
		respondDatabaseError(c, "Error creating budget", err)
		return
	}
	c.JSON(http.StatusCreated, convertBudget(budget))
}

// @Summary Update budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Param budget body budgetRequest true "Budget data"
// @Success 200 {object} Budget
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Router /api/budgets/{id} [put]
func updateBudget(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "budget")
	if !ok {
		return
	}

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateBudgetRequest(c, req)
	if !ok {
		return
	}

	budget, err := queries.UpdateBudget(c.Request.Context(), store.UpdateBudgetParams{
		ID:         id,
		UserID:     params.UserID,
		CategoryID: params.CategoryID,
		Amount:     params.Amount,
		Period:     params.Period,
		StartDate:  params.StartDate,
	})
	if err != nil {
		respondDatabaseError(c, "Error updating budget", err)
		return
	}
	c.JSON(http.StatusOK, convertBudget(budget))
}

// @Summary Delete budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 200 {object} map[string]interface{} "Budget deleted successfully"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Router /api/budgets/{id} [delete]
func deleteBudget(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "budget")
	if !ok {
		return
	}

	affected, err := queries.DeleteBudget(c.Request.Context(), store.DeleteBudgetParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error deleting budget", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// @Summary Budget progress
// @Description Spending of each budget within its current period window
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetProgress
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/budgets/progress [get]
func getBudgetProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	dbBudgets, err := queries.ListBudgets(ctx, userID)
	if err != nil {
		respondDatabaseError(c, "Error fetching budgets", err)
		return
	}

	progress := make([]BudgetProgress, 0, len(dbBudgets))
	for _, b := range dbBudgets {
		p, err := budgetProgress(ctx, queries, b, nowFunc())
		if err != nil {
			respondDatabaseError(c, "Error computing budget progress", err)
			return
		}
		progress = append(progress, convertBudgetProgress(b, p.window, p.progress))
	}
	c.JSON(http.StatusOK, progress)
}

type budgetStatus struct {
	window   finance.Window
	progress finance.BudgetProgress
}

// budgetProgress sums the budget's category spending inside the window containing now
func budgetProgress(ctx context.Context, q store.Querier, b store.Budget, now time.Time) (budgetStatus, error) {
	window, err := finance.PeriodWindow(b.Period, b.StartDate, now)
	if err != nil {
		return budgetStatus{}, err
	}
	spent, err := q.SumCategorySpent(ctx, store.SumCategorySpentParams{
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		From:       window.Start,
		To:         window.End,
	})
	if err != nil {
		return budgetStatus{}, err
	}
	return budgetStatus{window: window, progress: finance.ComputeBudgetProgress(b.Amount, spent)}, nil
}

func validateBudgetRequest(c *gin.Context, req budgetRequest) (store.CreateBudgetParams, bool) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return store.CreateBudgetParams{}, false
	}
	amount := toAmount(req.Amount)
	if !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
		return store.CreateBudgetParams{}, false
	}
	period, err := finance.ParsePeriod(req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be WEEKLY, MONTHLY or YEARLY"})
		return store.CreateBudgetParams{}, false
	}
	startDate, err := parseDateOrToday(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateBudgetParams{}, false
	}

	userID := currentUserID(c)
	if _, ok := checkCategory(c, c.Request.Context(), userID, categoryID, store.TypeExpense); !ok {
		return store.CreateBudgetParams{}, false
	}

	return store.CreateBudgetParams{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  startDate,
	}, true
}
