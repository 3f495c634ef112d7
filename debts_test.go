package main

import (
	"net/http"
	"testing"

	"finanzas/db/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDebts tests the /api/debts endpoints
func TestDebts(t *testing.T) {
	setupTestRouter(t)
	user := createTestUser(t, "ana@example.com", store.RoleUser)
	token := tokenFor(t, user)

	var debt Debt
	t.Run("should default remaining to the total", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/debts", map[string]any{
			"name": "Tarjeta", "creditor": "Banco", "total_amount": 2000000, "interest_rate": 2.1, "due_date": "2024-06-30",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.NoError(t, parseJSONResponse(w, &debt))
		assert.Equal(t, 2000000.0, debt.RemainingAmount)
		assert.Equal(t, 0.0, debt.PaidAmount)
		require.NotNil(t, debt.InterestRate)
		assert.Equal(t, 2.1, *debt.InterestRate)
	})

	t.Run("should reduce the remaining amount on payment", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/debts/"+debt.ID+"/payment", map[string]any{"amount": 500000}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var paid Debt
		require.NoError(t, parseJSONResponse(w, &paid))
		assert.Equal(t, 1500000.0, paid.RemainingAmount)
		assert.Equal(t, 500000.0, paid.PaidAmount)
	})

	t.Run("should never go below zero", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/debts/"+debt.ID+"/payment", map[string]any{"amount": 9000000}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var paid Debt
		require.NoError(t, parseJSONResponse(w, &paid))
		assert.Equal(t, 0.0, paid.RemainingAmount)
		assert.Equal(t, 2000000.0, paid.PaidAmount)
	})

	t.Run("should reject non-positive payments", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/debts/"+debt.ID+"/payment", map[string]any{"amount": 0}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should return 404 paying an unknown debt", func(t *testing.T) {
		w := makeJSONRequest(t, "POST", "/api/debts/"+uuid.NewString()+"/payment", map[string]any{"amount": 10}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should update and delete a debt", func(t *testing.T) {
		w := makeJSONRequest(t, "PUT", "/api/debts/"+debt.ID, map[string]any{
			"name": "Tarjeta Visa", "total_amount": 2000000, "remaining_amount": 100000,
		}, token)
		require.Equal(t, http.StatusOK, w.Code)
		var updated Debt
		require.NoError(t, parseJSONResponse(w, &updated))
		assert.Equal(t, "Tarjeta Visa", updated.Name)
		assert.Equal(t, 100000.0, updated.RemainingAmount)

		w = makeRequest("GET", "/api/debts", nil, token)
		var debts []Debt
		require.NoError(t, parseJSONResponse(w, &debts))
		assert.Len(t, debts, 1)

		w = makeRequest("DELETE", "/api/debts/"+debt.ID, nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		w = makeRequest("DELETE", "/api/debts/"+debt.ID, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
