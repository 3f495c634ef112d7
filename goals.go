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

type goalRequest struct {
	Name          string           `json:"name"`
	TargetAmount  decimal.Decimal  `json:"target_amount" swaggertype:"number"`
	CurrentAmount *decimal.Decimal `json:"current_amount" swaggertype:"number"`
	Deadline      *string          `json:"deadline"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`
}

// @Summary Get goals
// @Description Savings goals, open goals first
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Goal
// @Router /api/goals [get]
func getGoals(c *gin.Context) {
	dbGoals, err := queries.ListGoals(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondDatabaseError(c, "Error fetching goals", err)
		return
	}

	goals := make([]Goal, 0, len(dbGoals))
	for _, g := range dbGoals {
		goals = append(goals, convertGoal(g))
	}
	c.JSON(http.StatusOK, goals)
}

// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param goal body goalRequest true "Goal data"
// @Success 201 {object} Goal
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/goals [post]
func createGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateGoalRequest(c, req)
	if !ok {
		return
	}

	goal, err := queries.CreateGoal(c.Request.Context(), params)
	if err != nil {
		respondDatabaseError(c, "Error creating goal", err)
		return
	}
	c.JSON(http.StatusCreated, convertGoal(goal))
}

// @Summary Update goal
// @Description Keeps the saved amount when current_amount is omitted; completion follows current >= target
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param goal body goalRequest true "Goal data"
// @Success 200 {object} Goal
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Goal not found"
// @Router /api/goals/{id} [put]
func updateGoal(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "goal")
	if !ok {
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	params, ok := validateGoalRequest(c, req)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var updated store.Goal
	err := queries.ExecTx(ctx, func(q store.Querier) error {
		goal, err := q.GetGoal(ctx, store.GetGoalParams{ID: id, UserID: params.UserID})
		if err != nil {
			return err
		}
		// saved money survives edits that leave current_amount out
		current := goal.CurrentAmount
		if req.CurrentAmount != nil {
			current = params.CurrentAmount
		}
		updated, err = q.UpdateGoal(ctx, store.UpdateGoalParams{
			ID:            goal.ID,
			UserID:        params.UserID,
			Name:          params.Name,
			TargetAmount:  params.TargetAmount,
			CurrentAmount: current,
			Deadline:      params.Deadline,
			IsCompleted:   current.GreaterThanOrEqual(params.TargetAmount),
		})
		return err
	})
	if err != nil {
		respondDatabaseError(c, "Error updating goal", err)
		return
	}
	c.JSON(http.StatusOK, convertGoal(updated))
}

// @Summary Delete goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} map[string]interface{} "Goal deleted successfully"
// @Failure 404 {object} map[string]interface{} "Goal not found"
// @Router /api/goals/{id} [delete]
func deleteGoal(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "goal")
	if !ok {
		return
	}

	affected, err := queries.DeleteGoal(c.Request.Context(), store.DeleteGoalParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error deleting goal", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// @Summary Contribute to goal
// @Description Add money to a goal; it completes once current reaches target. Not idempotent.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param contribution body amountRequest true "Amount to add"
// @Success 200 {object} Goal
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Goal not found"
// @Router /api/goals/{id}/contribute [post]
func contributeGoal(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "goal")
	if !ok {
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	amount := toAmount(req.Amount)
	if !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": finance.ErrNonPositiveAmount.Error()})
		return
	}

	userID := currentUserID(c)
	var updated store.Goal
	err := queries.ExecTx(c.Request.Context(), func(q store.Querier) error {
		goal, err := q.GetGoal(c.Request.Context(), store.GetGoalParams{ID: id, UserID: userID})
		if err != nil {
			return err
		}
		state, err := finance.Contribute(finance.GoalState{
			Target:    goal.TargetAmount,
			Current:   goal.CurrentAmount,
			Completed: goal.IsCompleted,
		}, amount)
		if err != nil {
			return err
		}
		updated, err = q.UpdateGoal(c.Request.Context(), store.UpdateGoalParams{
			ID:            goal.ID,
			UserID:        userID,
			Name:          goal.Name,
			TargetAmount:  goal.TargetAmount,
			CurrentAmount: state.Current,
			Deadline:      goal.Deadline,
			IsCompleted:   state.Completed,
		})
		return err
	})
	if errors.Is(err, finance.ErrNonPositiveAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondDatabaseError(c, "Error contributing to goal", err)
		return
	}
	c.JSON(http.StatusOK, convertGoal(updated))
}

func validateGoalRequest(c *gin.Context, req goalRequest) (store.CreateGoalParams, bool) {
	if err := validateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateGoalParams{}, false
	}
	target := toAmount(req.TargetAmount)
	if !target.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_amount must be greater than 0"})
		return store.CreateGoalParams{}, false
	}
	current := decimal.Zero
	if req.CurrentAmount != nil {
		current = toAmount(*req.CurrentAmount)
	}
	if current.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_amount cannot be negative"})
		return store.CreateGoalParams{}, false
	}
	deadline, err := parseOptionalDate(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return store.CreateGoalParams{}, false
	}

	return store.CreateGoalParams{
		UserID:        currentUserID(c),
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		IsCompleted:   current.GreaterThanOrEqual(target),
	}, true
}

