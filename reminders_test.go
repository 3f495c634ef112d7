package main

import (
	"context"
	"net/http"
	"testing"

	"finanzas/db/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReminders tests the /api/reminders endpoints
func TestReminders(t *testing.T) {
	setupTestRouter(t)
	user := createTestUser(t, "ana@example.com", store.RoleUser)
	token := tokenFor(t, user)
	housing := testStore.defaultCategory("Vivienda")

	var rent, call Reminder
	t.Run("should create reminders", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/reminders", map[string]any{
			"title": "Arriendo", "amount": 1200000, "due_date": "2024-04-01", "category_id": housing.ID.String(),
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NoError(t, parseJSONResponse(w, &rent))
		require.NotNil(t, rent.Amount)
		assert.Equal(t, 1200000.0, *rent.Amount)
		assert.False(t, rent.IsPaid)

		w = makeJSONRequest(t, "POST", "/api/reminders", map[string]any{
			"title": "Llamar al banco", "due_date": "2024-03-20",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, parseJSONResponse(w, &call))
		assert.Nil(t, call.Amount)
	})

	t.Run("should reject a reminder with an income category", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/reminders", map[string]any{
			"title": "Cobro", "due_date": "2024-03-20", "category_id": testStore.defaultCategory("Salario").ID.String(),
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should list by due date", func(t *testing.T) {
		w := makeRequest("GET", "/api/reminders", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var reminders []Reminder
		require.NoError(t, parseJSONResponse(w, &reminders))
		require.Len(t, reminders, 2)
		assert.Equal(t, call.ID, reminders[0].ID)
	})

	t.Run("should record an expense when paying a reminder with amount and category", func(t *testing.T) {
		w := makeRequest("POST", "/api/reminders/"+rent.ID+"/mark-paid", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var paid Reminder
		require.NoError(t, parseJSONResponse(w, &paid))
		assert.True(t, paid.IsPaid)
		require.NotNil(t, paid.PaidAt)
		assert.True(t, paid.PaidAt.Equal(fixedNow))
		require.NotNil(t, paid.TransactionID)

		txID, err := uuid.Parse(*paid.TransactionID)
		require.NoError(t, err)
		tx, err := testStore.GetTransaction(context.Background(), store.GetTransactionParams{ID: txID, UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, store.TypeExpense, tx.Type)
		assert.Equal(t, "1200000", tx.Amount.String())
		assert.Equal(t, housing.ID, tx.CategoryID)
		assert.Equal(t, "Arriendo", tx.Description)
		assert.Equal(t, "2024-03-15", formatDate(tx.Date))
	})

	t.Run("should not pay twice", func(t *testing.T) {
		w := makeRequest("POST", "/api/reminders/"+rent.ID+"/mark-paid", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Reminder is already paid", errorMessage(t, w))
	})

	t.Run("should mark paid without a transaction when there is no amount", func(t *testing.T) {
		w := makeRequest("POST", "/api/reminders/"+call.ID+"/mark-paid", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var paid Reminder
		require.NoError(t, parseJSONResponse(w, &paid))
		assert.True(t, paid.IsPaid)
		assert.Nil(t, paid.TransactionID)
	})

	t.Run("should filter by status", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/reminders", map[string]any{"title": "Seguro", "due_date": "2024-05-01"}, token)
		require.Equal(t, http.StatusCreated, w.Code)

		w = makeRequest("GET", "/api/reminders?status=pending", nil, token)
		var pending []Reminder
		require.NoError(t, parseJSONResponse(w, &pending))
		assert.Len(t, pending, 1)

		w = makeRequest("GET", "/api/reminders?status=paid", nil, token)
		var paid []Reminder
		require.NoError(t, parseJSONResponse(w, &paid))
		assert.Len(t, paid, 2)

		w = makeRequest("GET", "/api/reminders?status=overdue", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should delete a reminder", func(t *testing.T) {
		w := makeRequest("DELETE", "/api/reminders/"+call.ID, nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		w = makeRequest("POST", "/api/reminders/"+call.ID+"/mark-paid", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
