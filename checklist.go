package main

import (
	"errors"
	"net/http"
	"strings"

	"finanzas/db/store"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type checklistItemRequest struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"number"`
	DueDay     int             `json:"due_day"`
	CategoryID *string         `json:"category_id"`
	Global     bool            `json:"global"`
}

type checklistToggleRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// @Summary Get checklist
// @Description Items owned by the user plus global items, each with its completion for the month
// @Tags checklist
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12), defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {array} ChecklistItem
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/checklist [get]
func getChecklist(c *gin.Context) {
	month, year, err := parseMonthYear(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	items, err := queries.ListVisibleChecklistItems(ctx, userID)
	if err != nil {
		respondDatabaseError(c, "Error fetching checklist", err)
		return
	}
	completions, err := queries.ListChecklistCompletions(ctx, store.ListChecklistCompletionsParams{
		UserID: userID,
		Month:  month,
		Year:   year,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching checklist completions", err)
		return
	}

	done := make(map[string]bool, len(completions))
	for _, completion := range completions {
		done[completion.ItemID.String()] = true
	}

	result := make([]ChecklistItem, 0, len(items))
	for _, item := range items {
		result = append(result, convertChecklistItem(item, done[item.ID.String()]))
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Create checklist item
// @Description Admins may create global items with "global": true
// @Tags checklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body checklistItemRequest true "Checklist item"
// @Success 201 {object} ChecklistItem
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 403 {object} map[string]interface{} "Only admins can create global items"
// @Router /api/checklist [post]
func createChecklistItem(c *gin.Context) {
	var req checklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount := toAmount(req.Amount)
	if amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount cannot be negative"})
		return
	}
	if req.DueDay < 1 || req.DueDay > 31 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_day must be between 1 and 31"})
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	if categoryID != nil {
		if _, ok := checkCategory(c, ctx, userID, *categoryID, ""); !ok {
			return
		}
	}

	owner := &userID
	if req.Global {
		if currentRole(c) != store.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create global items"})
			return
		}
		owner = nil
	}

	item, err := queries.CreateChecklistItem(ctx, store.CreateChecklistItemParams{
		Name:       strings.TrimSpace(req.Name),
		Amount:     amount,
		DueDay:     req.DueDay,
		CategoryID: categoryID,
		UserID:     owner,
	})
	if err != nil {
		respondDatabaseError(c, "Error creating checklist item", err)
		return
	}
	c.JSON(http.StatusCreated, convertChecklistItem(item, false))
}

// @Summary Delete checklist item
// @Description Owners delete their own items; admins may delete any item
// @Tags checklist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist item ID"
// @Success 200 {object} map[string]interface{} "Checklist item deleted successfully"
// @Failure 403 {object} map[string]interface{} "Not allowed"
// @Failure 404 {object} map[string]interface{} "Checklist item not found"
// @Router /api/checklist/{id} [delete]
func deleteChecklistItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "checklist item")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	item, err := queries.GetChecklistItem(ctx, id)
	if err != nil {
		respondDatabaseError(c, "Error fetching checklist item", err)
		return
	}

	userID := currentUserID(c)
	isOwner := item.UserID != nil && *item.UserID == userID
	if !isOwner && currentRole(c) != store.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete this checklist item"})
		return
	}

	if err := queries.DeleteChecklistItem(ctx, id); err != nil {
		respondDatabaseError(c, "Error deleting checklist item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checklist item deleted successfully"})
}

// @Summary Toggle checklist item
// @Description Flip the completion of an item for a month
// @Tags checklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checklist item ID"
// @Param period body checklistToggleRequest true "Month and year"
// @Success 200 {object} map[string]interface{} "completed: new state"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 404 {object} map[string]interface{} "Checklist item not found"
// @Router /api/checklist/{id}/toggle [post]
func toggleChecklistItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "checklist item")
	if !ok {
		return
	}

	var req checklistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := validateMonthYear(req.Month, req.Year); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	item, err := queries.GetChecklistItem(ctx, id)
	if err != nil {
		respondDatabaseError(c, "Error fetching checklist item", err)
		return
	}
	if item.UserID != nil && *item.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
		return
	}

	key := store.ChecklistCompletionKey{ItemID: id, UserID: userID, Month: req.Month, Year: req.Year}
	existing, err := queries.GetChecklistCompletion(ctx, key)
	switch {
	case err == nil:
		if err := queries.DeleteChecklistCompletion(ctx, existing.ID); err != nil {
			respondDatabaseError(c, "Error toggling checklist item", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed": false})
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := queries.CreateChecklistCompletion(ctx, key); err != nil {
			respondDatabaseError(c, "Error toggling checklist item", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed": true})
	default:
		respondDatabaseError(c, "Error toggling checklist item", err)
	}
}
