package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalUUID(t *testing.T) {
	t.Run("nil and blank strings return nil", func(t *testing.T) {
		for _, s := range []*string{nil, ptr(""), ptr("   ")} {
			result, err := parseOptionalUUID(s)
			require.NoError(t, err)
			assert.Nil(t, result)
		}
	})

	t.Run("valid UUID string is parsed", func(t *testing.T) {
		id := uuid.New()
		result, err := parseOptionalUUID(ptr(id.String()))

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, id, *result)
	})

	t.Run("uppercase UUID strings are handled correctly", func(t *testing.T) {
		id := uuid.New()
		result, err := parseOptionalUUID(ptr(strings.ToUpper(id.String())))

		require.NoError(t, err)
		assert.Equal(t, id, *result)
	})

	t.Run("malformed UUID string returns error", func(t *testing.T) {
		malformed := "123e4567-e89b-12d3-a456-42661417400" // Missing one character

		result, err := parseOptionalUUID(&malformed)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "invalid UUID format")
		assert.Contains(t, err.Error(), malformed)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"plain date", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"surrounding spaces", " 2024-03-15 ", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"RFC3339 keeps the UTC day", "2024-03-15T23:30:00-05:00", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), false},
		{"impossible day", "2024-02-30", time.Time{}, true},
		{"day first", "15/03/2024", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	for _, color := range []string{"", "#FF5733", "#00ff00"} {
		assert.NoError(t, validateHexColor(color), color)
	}
	for _, color := range []string{"FF5733", "#FFF", "#GGGGGG", "#FF57331"} {
		assert.Error(t, validateHexColor(color), color)
	}
}

func TestValidateTransactionType(t *testing.T) {
	got, err := validateTransactionType(" income ")
	require.NoError(t, err)
	assert.Equal(t, "INCOME", got)

	_, err = validateTransactionType("SAVINGS")
	assert.Error(t, err)
}

func TestValidateRecurringPattern(t *testing.T) {
	got, err := validateRecurringPattern("monthly")
	require.NoError(t, err)
	assert.Equal(t, "MONTHLY", got)

	_, err = validateRecurringPattern("BIWEEKLY")
	assert.Error(t, err)
}

func TestHandleDatabaseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no rows", pgx.ErrNoRows, http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest},
		{"check violation", &pgconn.PgError{Code: "23514"}, http.StatusBadRequest},
		{"other postgres error", &pgconn.PgError{Code: "42P01"}, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := handleDatabaseError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotEmpty(t, message)
		})
	}

	t.Run("duplicate email has its own message", func(t *testing.T) {
		_, message := handleDatabaseError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		assert.Equal(t, "User with this email already exists", message)
	})
}

func TestToAmount(t *testing.T) {
	assert.Equal(t, "10.13", toAmount(decimal.RequireFromString("10.125")).String())
	assert.Equal(t, "85400.55", toAmount(decimal.RequireFromString("85400.55")).String())
	assert.Equal(t, "1234567890123456.78", toAmount(decimal.RequireFromString("1234567890123456.78")).String())
	assert.Nil(t, toAmountPtr(nil))

	t.Run("should bind JSON numbers and strings without float rounding", func(t *testing.T) {
		var req amountRequest
		require.NoError(t, json.Unmarshal([]byte(`{"amount": 1234567890123456.78}`), &req))
		assert.Equal(t, "1234567890123456.78", toAmount(req.Amount).String())

		require.NoError(t, json.Unmarshal([]byte(`{"amount": "0.1"}`), &req))
		assert.Equal(t, "0.1", toAmount(req.Amount).String())

		assert.Error(t, json.Unmarshal([]byte(`{"amount": "diez"}`), &req))
	})
}

func TestReceiptKey(t *testing.T) {
	assert.Equal(t, "user/abc.png", receiptKey("/uploads/user/abc.png"))
	assert.Equal(t, "user/abc.png", receiptKey("user/abc.png"))
}

func ptr[T any](v T) *T {
	return &v
}
