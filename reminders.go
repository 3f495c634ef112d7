package main

import (
	"errors"
	"net/http"
	"strings"

	"finanzas/db/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errReminderAlreadyPaid = errors.New("reminder is already paid")

type reminderRequest struct {
	Title      string           `json:"title"`
	Amount     *decimal.Decimal `json:"amount" swaggertype:"number"`
	DueDate    string           `json:"due_date"`
	CategoryID *string          `json:"category_id"`
}

// @Summary Get reminders
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or paid"
// @Success 200 {array} Reminder
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/reminders [get]
func getReminders(c *gin.Context) {
	status := strings.ToLower(c.Query("status"))
	switch status {
	case "", store.ReminderStatusPending, store.ReminderStatusPaid:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or paid"})
		return
	}

	dbReminders, err := queries.ListReminders(c.Request.Context(), store.ListRemindersParams{
		UserID: currentUserID(c),
		Status: status,
	})
	if err != nil {
		respondDatabaseError(c, "Error fetching reminders", err)
		return
	}

	reminders := make([]Reminder, 0, len(dbReminders))
	for _, r := range dbReminders {
		reminders = append(reminders, convertReminder(r))
	}
	c.JSON(http.StatusOK, reminders)
}

// @Summary Create reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reminder body reminderRequest true "Reminder data"
// @Success 201 {object} Reminder
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /api/reminders [post]
func createReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if strings.TrimSpace(req.DueDate) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date is required"})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount := toAmountPtr(req.Amount)
	if amount != nil && !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
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
		if _, ok := checkCategory(c, ctx, userID, *categoryID, store.TypeExpense); !ok {
			return
		}
	}

	reminder, err := queries.CreateReminder(ctx, store.CreateReminderParams{
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Amount:     amount,
		DueDate:    dueDate,
		CategoryID: categoryID,
	})
	if err != nil {
		respondDatabaseError(c, "Error creating reminder", err)
		return
	}
	c.JSON(http.StatusCreated, convertReminder(reminder))
}

// @Summary Delete reminder
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} map[string]interface{} "Reminder deleted successfully"
// @Failure 404 {object} map[string]interface{} "Reminder not found"
// @Router /api/reminders/{id} [delete]
func deleteReminder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reminder")
	if !ok {
		return
	}

	affected, err := queries.DeleteReminder(c.Request.Context(), store.DeleteReminderParams{ID: id, UserID: currentUserID(c)})
	if err != nil {
		respondDatabaseError(c, "Error deleting reminder", err)
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}

// @Summary Mark reminder as paid
// @Description When the reminder has an amount and a category an EXPENSE transaction is recorded and linked
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 200 {object} Reminder
// @Failure 400 {object} map[string]interface{} "Reminder already paid"
// @Failure 404 {object} map[string]interface{} "Reminder not found"
// @Router /api/reminders/{id}/mark-paid [post]
func markReminderPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reminder")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	paidAt := nowFunc().UTC()

	var updated store.Reminder
	err := queries.ExecTx(ctx, func(q store.Querier) error {
		reminder, err := q.GetReminder(ctx, store.GetReminderParams{ID: id, UserID: userID})
		if err != nil {
			return err
		}
		if reminder.IsPaid {
			return errReminderAlreadyPaid
		}

		var transactionID *uuid.UUID
		if reminder.Amount != nil && reminder.CategoryID != nil {
			user, err := q.GetUserByID(ctx, userID)
			if err != nil {
				return err
			}
			transaction, err := q.CreateTransaction(ctx, store.CreateTransactionParams{
				UserID:      userID,
				Type:        store.TypeExpense,
				Amount:      *reminder.Amount,
				Currency:    user.Settings.Currency,
				CategoryID:  *reminder.CategoryID,
				Description: reminder.Title,
				Date:        today(),
			})
			if err != nil {
				return err
			}
			transactionID = &transaction.ID
		}

		updated, err = q.MarkReminderPaid(ctx, store.MarkReminderPaidParams{
			ID:            id,
			UserID:        userID,
			PaidAt:        paidAt,
			TransactionID: transactionID,
		})
		return err
	})
	if errors.Is(err, errReminderAlreadyPaid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reminder is already paid"})
		return
	}
	if err != nil {
		respondDatabaseError(c, "Error marking reminder as paid", err)
		return
	}
	c.JSON(http.StatusOK, convertReminder(updated))
}
