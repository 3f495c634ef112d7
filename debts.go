package main

import (
	"errors"
	"net/http"
	"strings"

	"finanzas/db/store"
	"finanzas/finance"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type debtRequest struct {
	Name            string   `json:"name"`
	Creditor        string   `json:"creditor"`
	TotalAmount     decimal.Decimal  `json:"total_amount" swaggertype:"number"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount" swaggertype:"number"`
	InterestRate    *decimal.Decimal `json:"interest_rate" swaggertype:"number"`
	DueDate         *string          `json:"due_date"`
}

// @Summary Get debts
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Debt
// @Router /api/debts [get]
func getDebts(c *gin.Context) {
	dbDebts, err := queries.ListDebts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching debts", err)
		return
	}

	debts := make([]Debt, 0, len(dbDebts))
	for _, d := range dbDebts {
		debts = append(debts, convertDebt(d))
	}
	c.JSON(http.StatusOK, debts)
}

// @Summary Create debt
// @Description remaining_amount defaults to total_amount
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param debt body debtRequest true "Debt data"
// @Success 201 {object} Debt
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/debts [post]
func createDebt(c *gin.Context) {
	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateDebtRequest(c, req)
	if !ok {
		return
	}

	debt, err := queries.CreateDebt(c.Request.Context(), params)
	if err != nil {
		respondDatabaseError(c, "Error creating debt", err)
		return
	}
	c.JSON(http.StatusCreated, convertDebt(debt))
}

// @Summary Update debt
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param debt body debtRequest true "Debt data"
// @Success 200 {object} Debt
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Debt not found"
// @Router /api/debts/{id} [put]
func updateDebt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "debt")
	if !ok {
		return
	}

	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateDebtRequest(c, req)
	if !ok {
		return
	}

	debt, err := queries.UpdateDebt(c.Request.Context(), store.UpdateDebtParams{
		ID:              id,
		UserID:          params.UserID,
		Name:            params.Name,
		Creditor:        params.Creditor,
		TotalAmount:     params.TotalAmount,
		RemainingAmount: params.RemainingAmount,
		InterestRate:    params.InterestRate,
		DueDate:         params.DueDate,
	})
	if err != nil {
		respondDatabaseError(c, "Error updating debt", err)
		return
	}
	c.JSON(http.StatusOK, convertDebt(debt))
}

// @Summary Delete debt
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} map[string]interface{} "Debt deleted successfully"
// @Failure 404 {object} map[string]interface{} "Debt not found"
// @Router /api/debts/{id} [delete]
func deleteDebt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "debt")
	if !ok {
		return
	}

	affected, err := queries.DeleteDebt(c.Request.Context(), store.DeleteDebtParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error deleting debt", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Debt not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Debt deleted successfully"})
}

// @Summary Register debt payment
// @Description Reduce the remaining amount, never below zero
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param payment body amountRequest true "Amount paid"
// @Success 200 {object} Debt
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Debt not found"
// @Router /api/debts/{id}/payment [post]
func payDebt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "debt")
	if !ok {
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	amount := toAmount(req.Amount)

	ctx := c.Request.Context()
	userID := currentUserID(c)
	var updated store.Debt
	err := queries.ExecTx(ctx, func(q store.Querier) error {
		debt, err := q.GetDebt(ctx, store.GetDebtParams{ID: id, UserID: userID})
		if err != nil {
			return err
		}
		remaining, err := finance.PayDebt(debt.RemainingAmount, amount)
		if err != nil {
			return err
		}
		updated, err = q.UpdateDebt(ctx, store.UpdateDebtParams{
			ID:              debt.ID,
			UserID:          userID,
			Name:            debt.Name,
			Creditor:        debt.Creditor,
			TotalAmount:     debt.TotalAmount,
			RemainingAmount: remaining,
			InterestRate:    debt.InterestRate,
			DueDate:         debt.DueDate,
		})
		return err
	})
	if errors.Is(err, finance.ErrNonPositiveAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondDatabaseError(c, "Error registering payment", err)
		return
	}
	c.JSON(http.StatusOK, convertDebt(updated))
}

func validateDebtRequest(c *gin.Context, req debtRequest) (store.CreateDebtParams, bool) {
	if err := validateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateDebtParams{}, false
	}
	total := toAmount(req.TotalAmount)
	if !total.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_amount must be greater than 0"})
		return store.CreateDebtParams{}, false
	}
	remaining := total
	if req.RemainingAmount != nil {
		remaining = toAmount(*req.RemainingAmount)
	}
	if remaining.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "remaining_amount cannot be negative"})
		return store.CreateDebtParams{}, false
	}
	rate := toAmountPtr(req.InterestRate)
	if rate != nil && rate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interest_rate cannot be negative"})
		return store.CreateDebtParams{}, false
	}
	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateDebtParams{}, false
	}

	return store.CreateDebtParams{
		UserID:          currentUserID(c),
		Name:            strings.TrimSpace(req.Name),
		Creditor:        strings.TrimSpace(req.Creditor),
		TotalAmount:     total,
		RemainingAmount: remaining,
		InterestRate:    rate,
		DueDate:         dueDate,
	}, true
}
